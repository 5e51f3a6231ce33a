package contract

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SelectedFile is a locally chosen document. It is transient: it is replaced
// on every new selection and never persisted.
type SelectedFile struct {
	Name      string
	Size      int64
	MediaType string
	// Path is set for files read from disk.
	Path string
	// Data holds the content of in-memory files (Path empty).
	Data []byte
}

// FromPath describes the file at path. The media type comes from the
// extension when known, otherwise from content sniffing.
func FromPath(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return SelectedFile{}, fmt.Errorf("%s is a directory", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return SelectedFile{
		Name:      info.Name(),
		Size:      info.Size(),
		MediaType: detectMediaType(abs),
		Path:      abs,
	}, nil
}

// FromBytes builds an in-memory file.
func FromBytes(name, mediaType string, data []byte) SelectedFile {
	return SelectedFile{
		Name:      name,
		Size:      int64(len(data)),
		MediaType: mediaType,
		Data:      data,
	}
}

// Open returns a reader over the file content.
func (f SelectedFile) Open() (io.ReadCloser, error) {
	if f.Path == "" {
		return io.NopCloser(bytes.NewReader(f.Data)), nil
	}
	return os.Open(f.Path)
}

// Same reports whether two selections refer to the same document.
func (f SelectedFile) Same(other SelectedFile) bool {
	if f.Path != "" || other.Path != "" {
		return f.Path == other.Path
	}
	return f.Name == other.Name && f.Size == other.Size
}

func detectMediaType(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		mediaType, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mediaType
		}
		return t
	}

	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = file.Close() }()

	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	if n == 0 {
		return ""
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(head[:n]))
	return mediaType
}
