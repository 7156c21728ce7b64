package report

// junit.go writes results as a JUnit XML document, one test suite per action
// and one test case per configuration.

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/embedmatrix/exmatrix/runner"
)

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

// JUnit writes the results as JUnit XML.
func JUnit(w io.Writer, prefix string, results []runner.Result) error {
	doc := junitTestSuites{}
	index := map[string]int{}

	for _, r := range results {
		i, ok := index[r.Action]
		if !ok {
			i = len(doc.Suites)
			index[r.Action] = i
			doc.Suites = append(doc.Suites, junitTestSuite{Name: prefix + r.Action})
		}
		suite := &doc.Suites[i]

		tc := junitTestCase{
			Name:      r.Config.String(),
			ClassName: prefix + r.Action,
			Time:      fmt.Sprintf("%.3f", r.Duration.Seconds()),
		}
		if !r.Success() {
			tc.Failure = failure(r)
			suite.Failures++
			doc.Failures++
		}
		suite.Tests++
		doc.Tests++
		suite.Cases = append(suite.Cases, tc)
	}
	for i := range doc.Suites {
		var total float64
		for _, r := range results {
			if prefix+r.Action == doc.Suites[i].Name {
				total += r.Duration.Seconds()
			}
		}
		doc.Suites[i].Time = fmt.Sprintf("%.3f", total)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode junit report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteJUnitFile writes the JUnit report to path.
func WriteJUnitFile(path, prefix string, results []runner.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create junit report: %w", err)
	}
	defer f.Close()
	return JUnit(f, prefix, results)
}

func failure(r runner.Result) *junitFailure {
	if r.Err != nil {
		return &junitFailure{Message: r.Err.Error(), Text: r.Err.Error()}
	}
	var lines []string
	message := "action failed"
	for _, s := range r.Steps {
		switch {
		case s.Skipped:
			lines = append(lines, fmt.Sprintf("%s: skipped", s.Name))
		case !s.Success:
			if message == "action failed" {
				message = fmt.Sprintf("%s failed with exit code %d", s.Name, s.ExitCode)
			}
			lines = append(lines, fmt.Sprintf("%s: %s", s.Name, s.Error))
		}
	}
	return &junitFailure{Message: message, Text: strings.Join(lines, "\n")}
}
