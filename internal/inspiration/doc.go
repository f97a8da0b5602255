// Package inspiration supplies writing prompts for the composer.
//
// Prompts come from an external command (by default `bird news -n 5 --json`)
// whose JSON output is normalized into {headline, category} pairs. When the
// command is missing, slow, fails, or prints nothing usable, the service
// answers with a fixed list of five prompts instead. Callers never see an
// error.
package inspiration
