package catalog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	recordHeaderSize    = 16
	subrecordHeaderSize = 8
	hedrSize            = 300
	authorSize          = 32
	descriptionSize     = 256
	// maxHeaderRecordSize bounds the allocation for the TES3 record.
	maxHeaderRecordSize = 1 << 20
)

var (
	tagTES3 = [4]byte{'T', 'E', 'S', '3'}
	tagHEDR = [4]byte{'H', 'E', 'D', 'R'}
	tagFORM = [4]byte{'F', 'O', 'R', 'M'}
	tagMAST = [4]byte{'M', 'A', 'S', 'T'}
	tagDATA = [4]byte{'D', 'A', 'T', 'A'}
)

// header is the decoded TES3 record at the start of a game or addon file.
type header struct {
	Version       float32
	Flags         uint32
	Author        string
	Description   string
	RecordCount   uint32
	FormatVersion int32
	Masters       []domain.Dependency
}

// readHeader decodes the TES3 record. Unknown subrecords are skipped.
func readHeader(r io.Reader) (header, error) {
	var rec [recordHeaderSize]byte
	if _, err := io.ReadFull(r, rec[:]); err != nil {
		return header{}, truncated(err)
	}
	if !bytes.Equal(rec[0:4], tagTES3[:]) {
		return header{}, zerr.With(domain.ErrContentMalformed, "record", string(rec[0:4]))
	}

	size := binary.LittleEndian.Uint32(rec[4:8])
	if size > maxHeaderRecordSize {
		return header{}, zerr.With(domain.ErrContentMalformed, "record_size", size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return header{}, truncated(err)
	}

	return parseSubrecords(body)
}

func parseSubrecords(body []byte) (header, error) {
	var h header
	var seenHEDR bool

	for len(body) > 0 {
		if len(body) < subrecordHeaderSize {
			return header{}, domain.ErrContentTruncated
		}
		var tag [4]byte
		copy(tag[:], body[0:4])
		size := binary.LittleEndian.Uint32(body[4:8])
		body = body[subrecordHeaderSize:]
		if uint64(size) > uint64(len(body)) {
			return header{}, zerr.With(domain.ErrContentTruncated, "subrecord", string(tag[:]))
		}
		data := body[:size]
		body = body[size:]

		switch tag {
		case tagHEDR:
			if err := h.decodeHEDR(data); err != nil {
				return header{}, err
			}
			seenHEDR = true
		case tagFORM:
			if len(data) != 4 {
				return header{}, zerr.With(domain.ErrContentMalformed, "subrecord", "FORM")
			}
			h.FormatVersion = int32(binary.LittleEndian.Uint32(data)) //nolint:gosec // two's complement on disk
		case tagMAST:
			name := cString(data)
			if name == "" {
				return header{}, zerr.With(domain.ErrContentMalformed, "subrecord", "MAST")
			}
			h.Masters = append(h.Masters, domain.Dependency{ID: domain.NewContentID(name)})
		case tagDATA:
			if len(h.Masters) == 0 || len(data) != 8 {
				return header{}, zerr.With(domain.ErrContentMalformed, "subrecord", "DATA")
			}
			h.Masters[len(h.Masters)-1].Size = binary.LittleEndian.Uint64(data)
		}
	}

	if !seenHEDR {
		return header{}, zerr.With(domain.ErrContentMalformed, "subrecord", "HEDR")
	}
	return h, nil
}

func (h *header) decodeHEDR(data []byte) error {
	if len(data) != hedrSize {
		return zerr.With(domain.ErrContentMalformed, "subrecord", "HEDR")
	}
	h.Version = math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	h.Flags = binary.LittleEndian.Uint32(data[4:8])
	h.Author = cString(data[8 : 8+authorSize])
	h.Description = cString(data[8+authorSize : 8+authorSize+descriptionSize])
	h.RecordCount = binary.LittleEndian.Uint32(data[8+authorSize+descriptionSize:])
	return nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.ErrContentTruncated
	}
	return zerr.Wrap(err, domain.ErrContentUnreadable.Error())
}
