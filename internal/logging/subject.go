package logging

import "strings"

// FormatSubject builds the project/command subject shown in console output,
// e.g. "demo · split-clip".
func FormatSubject(project, command string) string {
	parts := make([]string, 0, 2)
	if project = strings.TrimSpace(project); project != "" {
		parts = append(parts, project)
	}
	if command = strings.TrimSpace(command); command != "" {
		parts = append(parts, command)
	}
	return strings.Join(parts, " · ")
}
