package console

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncWriterKeepsWritesWhole(t *testing.T) {
	var buf bytes.Buffer
	w := NewSyncWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = fmt.Fprintf(w, "line-%02d-%s\n", i, strings.Repeat("x", 64))
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 50)
	for _, line := range lines {
		assert.Regexp(t, `^line-\d{2}-x{64}$`, line)
	}
}

func TestSyncWriterDo(t *testing.T) {
	var buf bytes.Buffer
	w := NewSyncWriter(&buf)

	err := w.Do(func(out io.Writer) error {
		_, _ = io.WriteString(out, "a")
		_, _ = io.WriteString(out, "b")
		return nil
	})
	assert.NoError(t, err)

	n, err := w.WriteString("c")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "abc", buf.String())

	sentinel := errors.New("stop")
	assert.ErrorIs(t, w.Do(func(io.Writer) error { return sentinel }), sentinel)
}

func TestNilWriterDiscards(t *testing.T) {
	n, err := NewSyncWriter(nil).WriteString("ignored")
	assert.NoError(t, err)
	assert.Equal(t, 7, n)
}
