package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/kdweld/internal/welder"
)

var pointFileExtensions = map[string]bool{
	".xyz": true,
	".txt": true,
	".csv": true,
}

type FileFinder interface {
	GetPointFilesToProcess(opts *welder.WelderOptions) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetPointFilesToProcess(opts *welder.WelderOptions) ([]string, error) {
	// If folder processing is not enabled then the vertex file is given by -input flag, otherwise look for vertex
	// files in -input folder eventually excluding nested folders if Recursive flag is disabled
	if !opts.FolderProcessing {
		return []string{opts.Input}, nil
	}

	return f.getPointFilesFromInputFolder(opts)
}

// Walks the input folder in lexical order, which fixes the order vertices are appended to the index
func (f *StandardFileFinder) getPointFilesFromInputFolder(opts *welder.WelderOptions) ([]string, error) {
	var pointFiles = make([]string, 0)

	baseInfo, err := os.Stat(opts.Input)
	if err != nil {
		return nil, err
	}
	if !baseInfo.IsDir() {
		return nil, fmt.Errorf("%s is not a folder", opts.Input)
	}

	err = filepath.Walk(
		opts.Input,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !opts.Recursive && !os.SameFile(info, baseInfo) {
				return filepath.SkipDir
			}
			if !info.IsDir() && pointFileExtensions[strings.ToLower(filepath.Ext(info.Name()))] {
				pointFiles = append(pointFiles, path)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return pointFiles, nil
}
