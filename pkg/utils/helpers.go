package utils

import (
	"fmt"
	"os"
	"sort"
)

//InSlice returns true if given string appears in given slice
func InSlice(lookingFor string, slice []string) bool {
	for _, s := range slice {
		if s == lookingFor {
			return true
		}
	}

	return false
}

//ListDir returns a list of files/ directories in given path
func ListDir(path string) ([]string, error) {
	names := make([]string, 0)
	if files, err := os.ReadDir(path); err != nil {
		return nil, fmt.Errorf("ListDir: Error, got '%v'", err)
	} else {
		for _, f := range files {
			names = append(names, f.Name())
		}
	}

	return names, nil
}

//EnsureDir creates given directory (and parents) in case it does not exist yet
func EnsureDir(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(path, 0766); err != nil {
				return fmt.Errorf("EnsureDir: Error creating '%s', got '%v'", path, err)
			}
			return nil
		}
		return err
	}

	return nil
}

//UniqueSorted returns the distinct values of given slice in ascending order
func UniqueSorted(values []int) []int {
	seen := make(map[int]bool, len(values))
	res := make([]int, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			res = append(res, v)
		}
	}

	sort.Ints(res)
	return res
}
