package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"time"
)

const (
	sessionFormatVersionCurrent = 2
	sessionFormatVersionV1      = 1
)

var (
	ErrUnsupportedSchemaVersion = errors.New("unsupported session schema version")
	ErrSessionCorrupt           = errors.New("session payload corrupt")
)

// Encode serializes s in the current schema version. Attributes are written in
// name order so equal sessions encode to equal bytes.
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, ErrNilSession
	}

	var buf bytes.Buffer
	buf.WriteByte(sessionFormatVersionCurrent)

	if len(s.ID) > 255 {
		return nil, errors.New("session id too long")
	}
	buf.WriteByte(byte(len(s.ID)))
	buf.WriteString(s.ID)

	if err := binary.Write(&buf, binary.BigEndian, unixNano(s.CreatedAt)); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, unixNano(s.LastAccessedAt)); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, int64(s.MaxInactive)); err != nil {
		return nil, err
	}

	if len(s.Attributes) > math.MaxUint16 {
		return nil, errors.New("too many attributes")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(s.Attributes))); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(s.Attributes))
	for name := range s.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if len(name) > 255 {
			return nil, fmt.Errorf("attribute name too long: %.32s", name)
		}
		value := s.Attributes[name]
		if uint64(len(value)) > math.MaxUint32 {
			return nil, fmt.Errorf("attribute %s too large", name)
		}
		buf.WriteByte(byte(len(name)))
		buf.WriteString(name)
		if err := binary.Write(&buf, binary.BigEndian, uint32(len(value))); err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	return buf.Bytes(), nil
}

// Decode parses any supported schema version. v1 payloads carry no
// MaxInactive and decode with zero.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	if version != sessionFormatVersionCurrent && version != sessionFormatVersionV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchemaVersion, version)
	}

	s := &Session{}

	idLen, err := reader.ReadByte()
	if err != nil {
		return nil, corrupt(err)
	}
	id := make([]byte, idLen)
	if _, err := io.ReadFull(reader, id); err != nil {
		return nil, corrupt(err)
	}
	s.ID = string(id)

	var created, accessed int64
	if err := binary.Read(reader, binary.BigEndian, &created); err != nil {
		return nil, corrupt(err)
	}
	if err := binary.Read(reader, binary.BigEndian, &accessed); err != nil {
		return nil, corrupt(err)
	}
	s.CreatedAt = fromUnixNano(created)
	s.LastAccessedAt = fromUnixNano(accessed)

	if version == sessionFormatVersionCurrent {
		var maxInactive int64
		if err := binary.Read(reader, binary.BigEndian, &maxInactive); err != nil {
			return nil, corrupt(err)
		}
		s.MaxInactive = time.Duration(maxInactive)
	}

	var count uint16
	if err := binary.Read(reader, binary.BigEndian, &count); err != nil {
		return nil, corrupt(err)
	}

	s.Attributes = make(map[string][]byte, count)
	for i := 0; i < int(count); i++ {
		nameLen, err := reader.ReadByte()
		if err != nil {
			return nil, corrupt(err)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(reader, name); err != nil {
			return nil, corrupt(err)
		}

		var valueLen uint32
		if err := binary.Read(reader, binary.BigEndian, &valueLen); err != nil {
			return nil, corrupt(err)
		}
		if int64(valueLen) > int64(reader.Len()) {
			return nil, fmt.Errorf("%w: attribute %s overruns payload", ErrSessionCorrupt, name)
		}
		value := make([]byte, valueLen)
		if _, err := io.ReadFull(reader, value); err != nil {
			return nil, corrupt(err)
		}
		s.Attributes[string(name)] = value
	}

	if reader.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrSessionCorrupt, reader.Len())
	}

	return s, nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
