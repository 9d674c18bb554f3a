// Package resources writes per-task input files that ScrapeStorm tasks read,
// such as the URL list a crawler starts from.
package resources

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// URLFileName is the file a task's start URLs are written to.
const URLFileName = "urls.txt"

// URLPath returns {root}/{taskID}/urls.txt.
func URLPath(root string, taskID int64) string {
	return filepath.Join(root, strconv.FormatInt(taskID, 10), URLFileName)
}

// WriteURLs writes urls, newline-joined without a trailing newline, to
// {root}/{taskID}/urls.txt, creating directories as needed. Blank entries are
// skipped. It returns the file path.
func WriteURLs(root string, taskID int64, urls []string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("resources dir is empty")
	}
	if taskID <= 0 {
		return "", fmt.Errorf("task id must be positive, got %d", taskID)
	}
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			cleaned = append(cleaned, u)
		}
	}
	if len(cleaned) == 0 {
		return "", fmt.Errorf("no urls to write")
	}

	path := URLPath(root, taskID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create resource dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(cleaned, "\n")), 0o644); err != nil {
		return "", fmt.Errorf("write urls: %w", err)
	}
	return path, nil
}

// ReadURLList reads one URL per line from r, ignoring blank lines and lines
// starting with '#'.
func ReadURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}

// LoadURLs reads the urls.txt previously written for taskID. A missing file
// yields no URLs.
func LoadURLs(root string, taskID int64) ([]string, error) {
	file, err := os.Open(URLPath(root, taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open urls: %w", err)
	}
	defer file.Close()
	return ReadURLList(file)
}
