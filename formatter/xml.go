package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/theoremus-urban-solutions/petrack2jpsvis/jpsvis"
)

// BuildGeometryXML converts a geometry into an etree document with an XML
// declaration and two-space indentation.
func BuildGeometryXML(g jpsvis.Geometry) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("geometry")
	root.CreateAttr("version", g.Version)
	root.CreateAttr("caption", g.Caption)
	root.CreateAttr("unit", g.Unit)

	rooms := root.CreateElement("rooms")
	for _, r := range g.Rooms {
		room := rooms.CreateElement("room")
		room.CreateAttr("id", strconv.Itoa(r.ID))
		room.CreateAttr("caption", r.Caption)
		for _, s := range r.SubRooms {
			writeSubRoom(room, s)
		}
	}

	doc.Indent(2)
	return doc
}

func writeSubRoom(room *etree.Element, s jpsvis.SubRoom) {
	sub := room.CreateElement("subroom")
	sub.CreateAttr("id", strconv.Itoa(s.ID))
	sub.CreateAttr("caption", s.Caption)
	sub.CreateAttr("class", s.Class)
	sub.CreateAttr("A_x", formatCoord(s.AX))
	sub.CreateAttr("B_y", formatCoord(s.BY))
	sub.CreateAttr("C_z", formatCoord(s.CZ))
	for _, p := range s.Polygons {
		poly := sub.CreateElement("polygon")
		poly.CreateAttr("caption", p.Caption)
		poly.CreateAttr("type", p.Type)
		for _, v := range p.Vertices {
			vertex := poly.CreateElement("vertex")
			vertex.CreateAttr("px", formatCoord(v.PX))
			vertex.CreateAttr("py", formatCoord(v.PY))
		}
	}
}

// WriteGeometry serializes g as geometry.xml.
func WriteGeometry(w io.Writer, g jpsvis.Geometry) error {
	if _, err := BuildGeometryXML(g).WriteTo(w); err != nil {
		return fmt.Errorf("write geometry: %w", err)
	}
	return nil
}

// ReadGeometry parses a geometry.xml document. Unknown elements are ignored.
func ReadGeometry(r io.Reader) (jpsvis.Geometry, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return jpsvis.Geometry{}, fmt.Errorf("read geometry: %w", err)
	}
	root := doc.SelectElement("geometry")
	if root == nil {
		return jpsvis.Geometry{}, fmt.Errorf("read geometry: missing <geometry> root")
	}

	g := jpsvis.Geometry{
		Version: root.SelectAttrValue("version", ""),
		Caption: root.SelectAttrValue("caption", ""),
		Unit:    root.SelectAttrValue("unit", ""),
	}
	var err error
	for _, re := range root.FindElements("./rooms/room") {
		r := jpsvis.Room{Caption: re.SelectAttrValue("caption", "")}
		if r.ID, err = intAttr(re, "id"); err != nil {
			return g, err
		}
		for _, se := range re.SelectElements("subroom") {
			s, err := readSubRoom(se)
			if err != nil {
				return g, err
			}
			r.SubRooms = append(r.SubRooms, s)
		}
		g.Rooms = append(g.Rooms, r)
	}
	return g, nil
}

func readSubRoom(se *etree.Element) (jpsvis.SubRoom, error) {
	s := jpsvis.SubRoom{
		Caption: se.SelectAttrValue("caption", ""),
		Class:   se.SelectAttrValue("class", ""),
	}
	var err error
	if s.ID, err = intAttr(se, "id"); err != nil {
		return s, err
	}
	if s.AX, err = floatAttr(se, "A_x"); err != nil {
		return s, err
	}
	if s.BY, err = floatAttr(se, "B_y"); err != nil {
		return s, err
	}
	if s.CZ, err = floatAttr(se, "C_z"); err != nil {
		return s, err
	}
	for _, pe := range se.SelectElements("polygon") {
		p := jpsvis.Polygon{
			Caption: pe.SelectAttrValue("caption", ""),
			Type:    pe.SelectAttrValue("type", ""),
		}
		for _, ve := range pe.SelectElements("vertex") {
			var v jpsvis.Vertex
			if v.PX, err = floatAttr(ve, "px"); err != nil {
				return s, err
			}
			if v.PY, err = floatAttr(ve, "py"); err != nil {
				return s, err
			}
			p.Vertices = append(p.Vertices, v)
		}
		s.Polygons = append(s.Polygons, p)
	}
	return s, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Missing attributes read as zero, matching what JPSvis assumes.
func floatAttr(e *etree.Element, key string) (float64, error) {
	raw := e.SelectAttrValue(key, "0")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("read geometry: <%s %s=%q>: %w", e.Tag, key, raw, err)
	}
	return v, nil
}

func intAttr(e *etree.Element, key string) (int, error) {
	raw := e.SelectAttrValue(key, "0")
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("read geometry: <%s %s=%q>: %w", e.Tag, key, raw, err)
	}
	return v, nil
}
