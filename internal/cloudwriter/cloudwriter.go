package cloudwriter

import (
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go/source"
)

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// ParquetFile adapts a CloudWriter to the write side of parquet-go's file
// interface. Cloud objects are write-once, so reads and seek-from-end are
// not supported.
type ParquetFile struct {
	cloudWriter CloudWriter
	offset      int64
}

func NewParquetFile(cw CloudWriter) *ParquetFile {
	return &ParquetFile{cloudWriter: cw}
}

func (p *ParquetFile) Open(name string) (source.ParquetFile, error) {
	// cloud objects are not reopened; the current instance is already set up
	// for writing
	return p, nil
}

func (p *ParquetFile) Create(name string) (source.ParquetFile, error) {
	// the object is implicitly created when the first write lands
	return p, nil
}

func (p *ParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		p.offset = offset
	case io.SeekCurrent:
		p.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return p.offset, nil
}

func (p *ParquetFile) Read(b []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (p *ParquetFile) Write(b []byte) (int, error) {
	return p.cloudWriter.Write(b)
}

func (p *ParquetFile) Close() error {
	return p.cloudWriter.Close()
}
