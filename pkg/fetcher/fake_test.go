package fetcher

import (
	"bytes"
	"errors"
	"io"
	"net/textproto"
	"os"
	"path"
	"strings"
	"testing"
)

type fakeFile struct {
	name string
	data []byte
}

// fakeArchive is an in-memory archive implementing interfaces.ArchiveSession
type fakeArchive struct {
	dirs  map[string][]fakeFile
	cwd   string
	calls []string

	closed int

	failCwd   map[string]error // by requested path
	failList  map[string]error // by absolute dir
	failRetr  map[string]error // by file name
	failClose map[string]error // by file name, returned when the transfer is closed
	failRead  map[string]error // by file name, returned after the data
	failCdup  error
	failPwd   error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		dirs:      map[string][]fakeFile{},
		cwd:       "/",
		failCwd:   map[string]error{},
		failList:  map[string]error{},
		failRetr:  map[string]error{},
		failClose: map[string]error{},
		failRead:  map[string]error{},
	}
}

func (f *fakeArchive) addFile(dir, name string, data []byte) {
	f.dirs[dir] = append(f.dirs[dir], fakeFile{name: name, data: data})
}

func (f *fakeArchive) exists(dir string) bool {
	if dir == "/" {
		return true
	}
	for d := range f.dirs {
		if d == dir || strings.HasPrefix(d, dir+"/") {
			return true
		}
	}
	return false
}

func (f *fakeArchive) resolve(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(f.cwd, p)
}

func (f *fakeArchive) ChangeDir(p string) error {
	f.calls = append(f.calls, "CWD "+p)
	if err := f.failCwd[p]; err != nil {
		return err
	}
	target := f.resolve(p)
	if !f.exists(target) {
		return &textproto.Error{Code: 550, Msg: p + ": No such file or directory"}
	}
	f.cwd = target
	return nil
}

func (f *fakeArchive) ChangeDirToParent() error {
	f.calls = append(f.calls, "CDUP")
	if f.failCdup != nil {
		return f.failCdup
	}
	f.cwd = path.Dir(f.cwd)
	return nil
}

func (f *fakeArchive) CurrentDir() (string, error) {
	if f.failPwd != nil {
		return "", f.failPwd
	}
	return f.cwd, nil
}

func (f *fakeArchive) NameList(p string) ([]string, error) {
	f.calls = append(f.calls, "NLST")
	if err := f.failList[f.cwd]; err != nil {
		return nil, err
	}
	var names []string
	for _, file := range f.dirs[f.cwd] {
		names = append(names, file.name)
	}
	return names, nil
}

func (f *fakeArchive) Retrieve(name string) (io.ReadCloser, error) {
	f.calls = append(f.calls, "RETR "+name)
	if err := f.failRetr[name]; err != nil {
		return nil, err
	}
	for _, file := range f.dirs[f.cwd] {
		if file.name == name {
			var r io.Reader = bytes.NewReader(file.data)
			if err := f.failRead[name]; err != nil {
				r = io.MultiReader(r, &errReader{err: err})
			}
			return &fakeResponse{Reader: r, closeErr: f.failClose[name]}, nil
		}
	}
	return nil, &textproto.Error{Code: 550, Msg: name + ": No such file"}
}

func (f *fakeArchive) Close() error {
	f.closed++
	return nil
}

func (f *fakeArchive) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeResponse struct {
	io.Reader
	closeErr error
}

func (r *fakeResponse) Close() error {
	return r.closeErr
}

type errReader struct {
	err error
}

func (r *errReader) Read([]byte) (int, error) {
	return 0, r.err
}

var errBoom = errors.New("boom")

// captureStdout runs fn with os.Stdout redirected and returns what was written
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = oldStdout
	return <-done
}
