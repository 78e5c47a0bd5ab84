package serializers

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const dataURIPrefix = "data:image"

// ImageFile is a decoded, not yet stored, image upload
type ImageFile struct {
	Name        string
	Ext         string
	ContentType string
	Data        []byte
}

// ImageField accepts an uploaded file or a base64 data URI
// (data:image/<ext>;base64,<payload>) and checks that it holds an image.
type ImageField struct {
	MaxSize int64
}

// Decode validates value. A nil result with no messages means the image
// should be cleared.
func (f ImageField) Decode(value interface{}) (*ImageFile, []string) {
	var file *ImageFile
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		if !strings.HasPrefix(v, dataURIPrefix) {
			return nil, []string{MsgNotAFile}
		}
		decoded, msg := decodeDataURI(v)
		if msg != "" {
			return nil, []string{msg}
		}
		file = decoded
	case *multipart.FileHeader:
		uploaded, msg := f.readUpload(v)
		if msg != "" {
			return nil, []string{msg}
		}
		file = uploaded
	default:
		return nil, []string{MsgNotAFile}
	}

	if msg := f.check(file); msg != "" {
		return nil, []string{msg}
	}
	return file, nil
}

func decodeDataURI(value string) (*ImageFile, string) {
	header, payload, found := strings.Cut(value, ";base64,")
	if !found {
		return nil, MsgNotAFile
	}
	slash := strings.LastIndex(header, "/")
	if slash < 0 {
		return nil, MsgInvalidImage
	}
	ext := strings.ToLower(header[slash+1:])
	if ext == "" || strings.ContainsAny(ext, `/\.`) {
		return nil, MsgInvalidImage
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return nil, MsgInvalidImage
	}
	return &ImageFile{Name: "temp." + ext, Ext: ext, Data: data}, ""
}

// decodeBase64 accepts payloads with or without trailing padding
func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}

func (f ImageField) readUpload(fh *multipart.FileHeader) (*ImageFile, string) {
	if fh.Filename == "" {
		return nil, "No filename could be determined."
	}
	if f.MaxSize > 0 && fh.Size > f.MaxSize {
		return nil, sizeMessage(f.MaxSize)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, MsgInvalidImage
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, MsgInvalidImage
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	return &ImageFile{Name: filepath.Base(fh.Filename), Ext: ext, Data: data}, ""
}

func (f ImageField) check(file *ImageFile) string {
	if len(file.Data) == 0 {
		return MsgEmptyFile
	}
	if f.MaxSize > 0 && int64(len(file.Data)) > f.MaxSize {
		return sizeMessage(f.MaxSize)
	}

	mt := mimetype.Detect(file.Data)
	// vector formats are not raster images
	if !strings.HasPrefix(mt.String(), "image/") || mt.Is("image/svg+xml") {
		return MsgInvalidImage
	}
	file.ContentType = mt.String()
	if file.Ext == "" {
		file.Ext = strings.TrimPrefix(mt.Extension(), ".")
	}
	return ""
}

func sizeMessage(max int64) string {
	return fmt.Sprintf("Ensure this file has at most %d bytes.", max)
}
