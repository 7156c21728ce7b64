package tools

// cmsis.go contains the cbuild and csolution invocations.

// BuildCleanArgs cleans the build artifacts of a project.
func (t Toolset) BuildCleanArgs(projectFile string) []string {
	return []string{t.Cbuild, "-c", projectFile}
}

// BuildArgs builds a project.
func (t Toolset) BuildArgs(projectFile string) []string {
	return []string{t.Cbuild, projectFile}
}

// BuildConvertArgs converts a solution into the project files of one context.
func (t Toolset) BuildConvertArgs(solutionFile, contextName string) []string {
	return []string{t.Csolution, "convert", "-s", solutionFile, "-c", contextName}
}
