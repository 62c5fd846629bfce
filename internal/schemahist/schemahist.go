// Package schemahist looks up the local git history of a schema
// file's field definitions.
package schemahist

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// FieldChange is one commit that touched a named field in a schema
// file's history.
type FieldChange struct {
	Field      string
	CommitHash string
	Summary    string
}

// History is field-change metadata extracted from a local schema
// registry git clone.
type History struct {
	GitPath string // path to the local git clone
	Changes map[string][]FieldChange
}

// gitToplevel finds the top level of the git repository that contains
// path, if any.
func gitToplevel(path string) (string, error) {
	bs, err := gitStdout(path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("finding top level of git repo %q: %w", path, err)
	}
	return string(bs), nil
}

// GetFieldHistory walks the git log of schemaPath within the
// repository at gitPath, and returns, for every field name appearing
// in fieldNames, the commits whose diff mentions that field name.
func GetFieldHistory(gitPath, schemaPath string, fieldNames []string) (*History, error) {
	toplevel, err := gitToplevel(gitPath)
	if err != nil {
		return nil, err
	}

	patch, err := gitStdout(toplevel, "log", "--pretty=commit %H@@@%s", "-p", "--", schemaPath)
	if err != nil {
		return nil, fmt.Errorf("reading history of %q: %w", schemaPath, err)
	}

	ret := &History{
		GitPath: toplevel,
		Changes: map[string][]FieldChange{},
	}

	var curHash, curSummary string
	for _, line := range strings.Split(string(patch), "\n") {
		if ms := commitHeaderRe.FindStringSubmatch(line); ms != nil {
			curHash, curSummary = ms[1], ms[2]
			continue
		}
		if curHash == "" || (!strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "-")) {
			continue
		}
		for _, name := range fieldNames {
			if !strings.Contains(line, `"`+name+`"`) {
				continue
			}
			changes := ret.Changes[name]
			if len(changes) > 0 && changes[len(changes)-1].CommitHash == curHash {
				// Already recorded this commit for this field (the
				// field name can appear on more than one changed line
				// of the same commit's diff).
				continue
			}
			ret.Changes[name] = append(changes, FieldChange{
				Field:      name,
				CommitHash: curHash,
				Summary:    curSummary,
			})
		}
	}

	return ret, nil
}

var commitHeaderRe = regexp.MustCompile(`^commit ([0-9a-f]+)@@@(.*)$`)

func gitStdout(repoPath string, args ...string) ([]byte, error) {
	args = append([]string{"-C", repoPath}, args...)
	c := exec.Command("git", args...)
	var stderr bytes.Buffer
	c.Stderr = &stderr
	bs, err := c.Output()
	if err != nil {
		cmdline := append([]string{"git"}, args...)
		var stderrStr string
		if stderr.Len() != 0 {
			stderrStr = "stderr:\n" + stderr.String()
		}
		return nil, fmt.Errorf("running %q: %w. %s", strings.Join(cmdline, " "), err, stderrStr)
	}
	return bytes.TrimSpace(bs), nil
}
