package imageedit

import "strconv"

// Fixed parameters sent with every edit request.
const (
	OutputCount    = 1
	OutputSize     = "1024x1024"
	ResponseFormat = "b64_json"
)

// Field is a plain multipart form value.
type Field struct {
	Name  string
	Value string
}

// FilePart is a multipart file backed by a file on disk.
type FilePart struct {
	Field       string
	Path        string
	FileName    string
	ContentType string
}

// Payload is the multipart body of an edit request. It references files by
// path so the bytes are streamed from the request's temp artifacts.
type Payload struct {
	Files  []FilePart
	Fields []Field
}

// Value returns the first form value registered under name.
func (p Payload) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// BuildEditPayload assembles the edit request for the source image at
// imagePath and the mask at maskPath.
func BuildEditPayload(imagePath, maskPath, prompt string) Payload {
	return Payload{
		Files: []FilePart{
			{Field: "image", Path: imagePath, FileName: "image.png", ContentType: "image/png"},
			{Field: "mask", Path: maskPath, FileName: "mask.png", ContentType: "image/png"},
		},
		Fields: []Field{
			{Name: "prompt", Value: prompt},
			{Name: "n", Value: strconv.Itoa(OutputCount)},
			{Name: "size", Value: OutputSize},
			{Name: "response_format", Value: ResponseFormat},
		},
	}
}

// SynthesizeMask derives the edit mask for src. The mask is a byte-identical
// copy of the source, which the service treats as "edit the whole image".
func SynthesizeMask(src []byte) []byte {
	return append([]byte(nil), src...)
}
