package imageedit

import (
	"errors"
	"testing"
)

func TestParseOutput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Output
		wantErr bool
	}{
		{
			name: "inline bytes",
			body: `{"data":[{"b64_json":"AAEC"}]}`,
			want: InlineImage{Data: []byte{0x00, 0x01, 0x02}},
		},
		{
			name: "remote url",
			body: `{"data":[{"url":"https://files.example.com/out.png"}]}`,
			want: RemoteImage{URL: "https://files.example.com/out.png"},
		},
		{
			name: "inline preferred over url",
			body: `{"data":[{"b64_json":"AAEC","url":"https://files.example.com/out.png"}]}`,
			want: InlineImage{Data: []byte{0x00, 0x01, 0x02}},
		},
		{name: "no items", body: `{"data":[]}`, wantErr: true},
		{name: "neither shape", body: `{"data":[{"revised_prompt":"x"}]}`, wantErr: true},
		{name: "invalid base64", body: `{"data":[{"b64_json":"***"}]}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseOutput([]byte(tc.body))
			if tc.wantErr {
				if !errors.Is(err, ErrUnrecognizedOutput) {
					t.Fatalf("ParseOutput() error = %v, want ErrUnrecognizedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOutput() unexpected error: %v", err)
			}
			switch want := tc.want.(type) {
			case InlineImage:
				inline, ok := got.(InlineImage)
				if !ok || string(inline.Data) != string(want.Data) {
					t.Fatalf("ParseOutput() = %#v, want %#v", got, want)
				}
			case RemoteImage:
				if got != want {
					t.Fatalf("ParseOutput() = %#v, want %#v", got, want)
				}
			}
		})
	}
}

func TestBuildEditPayload(t *testing.T) {
	p := BuildEditPayload("/tmp/a.png", "/tmp/b.png", "cat")
	if len(p.Files) != 2 || p.Files[0].Field != "image" || p.Files[1].Field != "mask" {
		t.Fatalf("unexpected files: %#v", p.Files)
	}
	if p.Files[0].Path != "/tmp/a.png" || p.Files[1].Path != "/tmp/b.png" {
		t.Fatalf("file paths not forwarded: %#v", p.Files)
	}
	want := map[string]string{"prompt": "cat", "n": "1", "size": "1024x1024", "response_format": "b64_json"}
	for k, v := range want {
		if got, ok := p.Value(k); !ok || got != v {
			t.Fatalf("field %s = %q, want %q", k, got, v)
		}
	}
}

func TestSynthesizeMaskCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	mask := SynthesizeMask(src)
	if string(mask) != string(src) {
		t.Fatalf("mask = %v, want %v", mask, src)
	}
	mask[0] = 9
	if src[0] != 1 {
		t.Fatalf("mask must not alias the source buffer")
	}
}
