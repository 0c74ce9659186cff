package mei

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/nao1215/iiif2neon/internal/iiif"
)

// PlaceholderZoneID is the xml:id of the zone the system break refers to.
const PlaceholderZoneID = "delete-me"

// Fixed document fragments. The element order and attribute values are what
// the Neon editor expects; do not reformat.
const (
	header = `<?xml version="1.0" encoding="UTF-8"?>` +
		`<?xml-model href="https://music-encoding.org/schema/4.0.0/mei-all.rng" type="application/xml" schematypens="http://relaxng.org/ns/structure/1.0"?>` +
		`<?xml-model href="https://music-encoding.org/schema/4.0.0/mei-all.rng" type="application/xml" schematypens="http://purl.oclc.org/dsdl/schematron"?>` +
		`<mei xmlns="http://www.music-encoding.org/ns/mei" meiversion="4.0.0">` +
		`<meiHead><fileDesc><titleStmt><title>`

	sourceDescOpen = `</title></titleStmt><pubStmt/><sourceDesc>`

	sourceDescClose = `</sourceDesc></fileDesc></meiHead><music><facsimile>`

	zoneAndScore = `<zone xml:id="` + PlaceholderZoneID + `" ulx="100" uly="100" lrx="1000" lry="1000"/>` +
		`</surface></facsimile>` +
		`<body><mdiv><score><scoreDef><staffGrp>` +
		`<staffDef n="1" notationtype="neume" lines="4" clef.shape="C" clef.line="3"/>` +
		`</staffGrp></scoreDef>` +
		`<section><staff n="1"><layer n="1">` +
		`<sb facs="#` + PlaceholderZoneID + `"/>` +
		`</layer></staff></section></score></mdiv></body>` +
		`</music></mei>`
)

// Generate renders the blank MEI document for canvas, recording manifestID
// and the canvas @id as its sources. The surface spans the whole canvas.
//
// Substituted values are XML-escaped, so labels such as "Recto & verso"
// still produce a well-formed document.
func Generate(canvas iiif.CanvasDescriptor, manifestID string) string {
	var sb strings.Builder
	sb.Grow(len(header) + len(zoneAndScore) + 512)

	sb.WriteString(header)
	writeEscaped(&sb, canvas.Label)
	sb.WriteString(sourceDescOpen)
	writeSource(&sb, manifestID, "IIIFManifest")
	writeSource(&sb, canvas.ID, "IIIFCanvas")
	sb.WriteString(sourceDescClose)

	sb.WriteString(`<surface ulx="0" uly="0" lrx="`)
	sb.WriteString(strconv.Itoa(canvas.Width))
	sb.WriteString(`" lry="`)
	sb.WriteString(strconv.Itoa(canvas.Height))
	sb.WriteString(`">`)

	sb.WriteString(zoneAndScore)
	return sb.String()
}

func writeSource(sb *strings.Builder, target, targetType string) {
	sb.WriteString(`<source target="`)
	writeEscaped(sb, target)
	sb.WriteString(`" recordtype="m" targettype="`)
	sb.WriteString(targetType)
	sb.WriteString(`"/>`)
}

// writeEscaped never fails: strings.Builder writes cannot error.
func writeEscaped(sb *strings.Builder, s string) {
	_ = xml.EscapeText(sb, []byte(s)) //nolint:errcheck // strings.Builder never returns an error
}
