package dto

import (
	"path/filepath"
	"strings"
)

// ContainerExtension is the extension of every produced file.
const ContainerExtension = ".m4a"

// Job is one source file to convert. It is built once, at listing time or
// from the command line, and consumed by exactly one worker.
type Job struct {
	SourcePath string
	SourceName string
	// OutputDir is empty when the target goes to the working directory.
	OutputDir string
}

func NewJob(sourcePath, outputDir string) Job {
	return Job{
		SourcePath: sourcePath,
		SourceName: filepath.Base(sourcePath),
		OutputDir:  outputDir,
	}
}

// Extension returns the source extension including the dot.
func (j Job) Extension() string {
	return filepath.Ext(j.SourceName)
}

// TargetName is the source name with its extension swapped for the
// container one: "01 - Intro.flac" becomes "01 - Intro.m4a".
func (j Job) TargetName() string {
	return strings.TrimSuffix(j.SourceName, j.Extension()) + ContainerExtension
}

func (j Job) TargetPath() string {
	if j.OutputDir == "" {
		return j.TargetName()
	}

	return filepath.Join(j.OutputDir, j.TargetName())
}
