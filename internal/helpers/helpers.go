package helpers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func ContainsStr(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

func ExtractKeyFromMap(key string, m map[string]interface{}, receiver interface{}) error {
	value, ok := m[key]
	if !ok {
		return fmt.Errorf("key '%s' not found in the map", key)
	}

	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key '%s': %w", key, err)
	}

	err = json.Unmarshal(jsonData, &receiver)
	if err != nil {
		return fmt.Errorf("failed to unmarshal value for key '%s': %w", key, err)
	}

	return nil
}

func CreateDirAndFileIfNoExist(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return os.WriteFile(filePath, []byte("{}"), 0644)
	}

	return nil
}

func GetProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	for {
		goModPath := filepath.Join(cwd, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			break
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			return "", err
		}
		cwd = parent
	}

	return cwd, nil
}
