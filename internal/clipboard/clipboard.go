// Package clipboard places text on the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/daveygoode/atlas/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error
)

// writer is the clipboard write function; tests replace it.
var writer = func(data []byte) error {
	if err := Init(); err != nil {
		return err
	}
	<-clipboard.Write(clipboard.FmtText, data)
	return nil
}

// Init initializes the clipboard. It is safe to call multiple times; a
// failed initialization is not retried.
func Init() error {
	initOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			logger.Warn("Clipboard: Failed to initialize: %v", err)
			initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
			return
		}
		logger.Debug("Clipboard: Initialized successfully")
	})
	return initErr
}

// WriteText replaces the clipboard contents with text.
func WriteText(text string) error {
	if err := writer([]byte(text)); err != nil {
		return err
	}
	logger.Debug("Clipboard: Wrote %d bytes of text", len(text))
	return nil
}

// ReadText reads text from the clipboard.
func ReadText() (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}
