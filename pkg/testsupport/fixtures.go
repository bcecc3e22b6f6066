// Package testsupport provides fixture helpers shared by the engine's tests:
// minimal SLA templates and on-disk data files.
package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SampleSLA returns a minimal but structurally faithful SLA template: one
// scaffold (document metadata, a color, a master page), one PAGE and one
// PAGEOBJECT with the given text content. Placeholders in text are carried
// verbatim.
func SampleSLA(text string) []byte {
	const template = `<?xml version="1.0" encoding="UTF-8"?>
<SCRIBUSUTF8NEW Version="1.5.8">
    <DOCUMENT ANZPAGES="1" PAGEWIDTH="595" PAGEHEIGHT="842" UNITS="1">
        <COLOR NAME="Black" CMYK="#000000ff"/>
        <MASTERPAGE NUM="0" NAM="Normal" MNAM=""/>
        <PAGE NUM="0" NAM="" MNAM="Normal" PAGEXPOS="100" PAGEYPOS="20"/>
        <PAGEOBJECT XPOS="130" YPOS="50" OwnPage="0" ItemID="1001" NEXTITEM="-1" BACKITEM="-1" PTYPE="4" AnName="frame1">
            <StoryText>
                <ITEXT CH="@TEXT@"/>
            </StoryText>
        </PAGEOBJECT>
    </DOCUMENT>
</SCRIBUSUTF8NEW>
`
	return []byte(strings.ReplaceAll(template, "@TEXT@", text))
}

// WriteFile writes content into dir under name and returns the full path.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// CSV joins lines into a data file payload.
func CSV(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}
