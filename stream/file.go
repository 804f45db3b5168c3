package stream

import (
	"bufio"
	"os"
)

// A FileStream reads or writes the wire encoding from a file on disk.
type FileStream struct {
	binaryStream
	file *os.File
	bw   *bufio.Writer
}

// Open a file for reading as a stream.
func OpenFileStream(path string) (*FileStream, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fs := &FileStream{file: file}
	fs.r = bufio.NewReader(file)
	return fs, nil
}

// Create (or truncate) a file and open it as a writable stream.
func CreateFileStream(path string) (*FileStream, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	fs := &FileStream{file: file}
	fs.bw = bufio.NewWriter(file)
	fs.w = fs.bw
	return fs, nil
}

// Flush buffered writes and close the backing file.
func (fs *FileStream) Close() error {
	if fs.closed {
		return nil
	}
	fs.closed = true
	if fs.bw != nil {
		if err := fs.bw.Flush(); err != nil {
			fs.file.Close()
			return err
		}
	}
	return fs.file.Close()
}
