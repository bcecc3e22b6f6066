package settings

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// The reserved region is a single self-closing element appended before the
// template's closing root tag. The YAML payload rides in an XML attribute, so
// escaping is the XML library's problem and unrelated edits elsewhere in the
// document never corrupt or move the region.
const regionVersion = "1"

// Encode writes the element self-closing, but the pattern also accepts the
// expanded <...></ScribusGeneratorSettings> form an XML tool may rewrite the
// region into. EscapeText never leaves a raw '>' inside the attribute, so
// [^>]* spans the whole open tag.
var regionPattern = regexp.MustCompile(`[ \t]*<ScribusGeneratorSettings\b[^>]*(?:/>|></ScribusGeneratorSettings>)\n?`)

// regionElement is the parsed shape of the reserved region. Encoding builds
// the fragment by hand instead of xml.Marshal, which would expand the element
// into an open/close pair the self-closing writer side does not use.
type regionElement struct {
	XMLName xml.Name `xml:"ScribusGeneratorSettings"`
	Version string   `xml:"version,attr"`
	Payload string   `xml:"payload,attr"`
}

// DecodeError reports a present but unparsable settings region. Callers fall
// back to provided defaults with a warning; it is never fatal.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("settings region: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Encode serializes the settings into the reserved region fragment.
func Encode(s Settings) ([]byte, error) {
	payload, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("settings: encode: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(`<ScribusGeneratorSettings version="`)
	buf.WriteString(regionVersion)
	buf.WriteString(`" payload="`)
	if err := xml.EscapeText(&buf, payload); err != nil {
		return nil, fmt.Errorf("settings: encode: %w", err)
	}
	buf.WriteString(`"/>`)
	return buf.Bytes(), nil
}

// Embed returns a copy of the template with the settings region replaced, or
// inserted before the closing root tag when the template has none.
func Embed(template []byte, s Settings) ([]byte, error) {
	fragment, err := Encode(s)
	if err != nil {
		return nil, err
	}

	if loc := regionPattern.FindIndex(template); loc != nil {
		out := make([]byte, 0, len(template)+len(fragment))
		out = append(out, template[:loc[0]]...)
		out = append(out, ' ')
		out = append(out, fragment...)
		out = append(out, '\n')
		out = append(out, template[loc[1]:]...)
		return out, nil
	}

	closing := bytes.LastIndex(template, []byte("</"))
	if closing < 0 {
		return nil, fmt.Errorf("settings: template has no closing tag to embed before")
	}
	out := make([]byte, 0, len(template)+len(fragment)+2)
	out = append(out, template[:closing]...)
	out = append(out, ' ')
	out = append(out, fragment...)
	out = append(out, '\n')
	out = append(out, template[closing:]...)
	return out, nil
}

// Decode extracts settings from the template's reserved region. A template
// without the region returns ok=false and no error; the caller then falls
// back to its own defaults. A region that exists but cannot be parsed returns
// a *DecodeError.
func Decode(template []byte) (Settings, bool, error) {
	loc := regionPattern.FindIndex(template)
	if loc == nil {
		return Settings{}, false, nil
	}

	region := bytes.TrimSpace(template[loc[0]:loc[1]])
	var elem regionElement
	if err := xml.Unmarshal(region, &elem); err != nil {
		return Settings{}, false, &DecodeError{Cause: err}
	}
	if elem.Version != regionVersion {
		return Settings{}, false, &DecodeError{Cause: fmt.Errorf("unsupported version %q", elem.Version)}
	}

	var s Settings
	if err := yaml.Unmarshal([]byte(elem.Payload), &s); err != nil {
		return Settings{}, false, &DecodeError{Cause: err}
	}
	return s, true, nil
}

// HasRegion reports whether the template carries a settings region at all.
func HasRegion(template []byte) bool {
	return regionPattern.Match(template)
}
