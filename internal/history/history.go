package history

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"sync"
)

// History keeps the most recent command lines and mirrors them to a file.
// An empty file name keeps history in memory only.
type History struct {
	items    []string
	file     string
	maxItems int
	mu       sync.Mutex
}

func New(file string, maxItems int) (*History, error) {
	h := &History{
		file:     file,
		maxItems: maxItems,
	}
	if err := h.load(); err != nil {
		return nil, err
	}
	return h, nil
}

// Add records item and rewrites the history file.
func (h *History) Add(item string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.maxItems == 0 {
		return nil
	}
	h.items = append(h.items, item)
	h.trim()
	return h.save()
}

func (h *History) GetAll() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string{}, h.items...)
}

func (h *History) trim() {
	if len(h.items) > h.maxItems {
		h.items = h.items[len(h.items)-h.maxItems:]
	}
}

func (h *History) load() error {
	if h.file == "" {
		return nil
	}
	file, err := os.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.items = append(h.items, scanner.Text())
	}
	h.trim()
	return scanner.Err()
}

func (h *History) save() error {
	if h.file == "" {
		return nil
	}
	file, err := os.Create(h.file)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, item := range h.items {
		if _, err := writer.WriteString(item + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
