package loader

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// maxLineSize bounds a single JSONL record (posts can carry long bodies)
const maxLineSize = 1024 * 1024 * 10 // 10MB

// LoadItemsFromFile reads JSONL records directly from a specific file path.
func LoadItemsFromFile[T any](path string) ([]T, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no feed found at %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer file.Close()

	items, _, err := ReadItems[T](file)
	return items, err
}

// LoadItemsFS reads JSONL records from name inside fsys. A missing file is
// reported with an error wrapping fs.ErrNotExist.
func LoadItemsFS[T any](fsys fs.FS, name string) ([]T, int, error) {
	file, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("no feed found at %s: %w", name, err)
		}
		return nil, 0, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer file.Close()

	return ReadItems[T](file)
}

// ReadItems decodes one JSON record per line. Blank lines are ignored and
// malformed lines are skipped; skipped counts them.
func ReadItems[T any](r io.Reader) (items []T, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			skipped++
			continue
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("error reading feed file: %w", err)
	}

	return items, skipped, nil
}
