package interaction

import (
	"errors"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/droe-core/droe-view/internal/util"
)

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	in       io.Reader
	file     *os.File
	oldState *termState
	input    chan KeyEvent
	stop     chan struct{}
	once     sync.Once
}

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyInterrupt
)

// IsQuit reports whether the event asks to leave the current view.
func (e KeyEvent) IsQuit() bool {
	switch e.Type {
	case KeyInterrupt, KeyEscape:
		return true
	case KeyChar:
		return e.Key == 'q' || e.Key == 'Q'
	}
	return false
}

// NewKeyboardReader puts f into raw mode and starts reading key presses.
func NewKeyboardReader(f *os.File) (*KeyboardReader, error) {
	kr := newKeyboardReader(f)
	kr.file = f

	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}

	go kr.readInput()

	return kr, nil
}

func newKeyboardReader(in io.Reader) *KeyboardReader {
	return &KeyboardReader{
		in:    in,
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}
}

// readInput reads keyboard input until stopped or the input ends.
func (kr *KeyboardReader) readInput() {
	defer close(kr.input)
	buf := make([]byte, 3)

	for {
		select {
		case <-kr.stop:
			return
		default:
		}

		n, err := kr.in.Read(buf)
		if n > 0 {
			for _, event := range kr.parseInput(buf[:n]) {
				select {
				case kr.input <- event:
				case <-kr.stop:
					return
				}
			}
		}
		if err != nil {
			if retryable(err) {
				continue
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				util.LogDebugf("keyboard read stopped: %v", err)
			}
			return
		}
	}
}

// retryable reports whether a read may simply be tried again. Anything else,
// such as EIO after the terminal hangs up, ends the reader.
func retryable(err error) bool {
	return errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN)
}

// parseInput turns one read into key events. Escape sequences for the arrow
// keys arrive in a single read; anything else is taken byte by byte.
func (kr *KeyboardReader) parseInput(buf []byte) []KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	if buf[0] == 27 { // ESC
		if len(buf) == 1 {
			return []KeyEvent{{Key: 27, Type: KeyEscape}}
		}
		if len(buf) >= 3 && buf[1] == '[' {
			switch buf[2] {
			case 'A':
				return []KeyEvent{{Type: KeyUp}}
			case 'B':
				return []KeyEvent{{Type: KeyDown}}
			case 'C':
				return []KeyEvent{{Type: KeyRight}}
			case 'D':
				return []KeyEvent{{Type: KeyLeft}}
			}
		}
		return nil
	}

	events := make([]KeyEvent, 0, len(buf))
	for _, b := range buf {
		switch b {
		case 3: // Ctrl+C
			events = append(events, KeyEvent{Key: 3, Type: KeyInterrupt})
		case '\r', '\n':
			events = append(events, KeyEvent{Key: rune(b), Type: KeyEnter})
		case 127, 8:
			events = append(events, KeyEvent{Key: rune(b), Type: KeyBackspace})
		default:
			events = append(events, KeyEvent{Key: rune(b), Type: KeyChar})
		}
	}
	return events
}

// Events returns the keyboard event channel. It is closed when the input
// ends or the reader is closed.
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the keyboard reader and restores terminal
func (kr *KeyboardReader) Close() error {
	var err error
	kr.once.Do(func() {
		close(kr.stop)
		err = kr.disableRawMode()
	})
	return err
}
