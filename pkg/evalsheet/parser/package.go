package parser

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"io"
	"strings"
)

// Package part names read directly from the OOXML container.
const (
	contentTypesPart = "[Content_Types].xml"
	workbookPart     = "/xl/workbook.xml"
	vbaProjectPart   = "xl/vbaProject.bin"
)

// macroEnabledMarker appears in the workbook content type of .xlsm and .xltm files.
const macroEnabledMarker = "macroEnabled"

// PackageInfo summarizes an OOXML spreadsheet container.
type PackageInfo struct {
	// Parts lists the container entries in archive order.
	Parts []string
	// WorkbookContentType is the content type declared for the workbook part.
	WorkbookContentType string
	// MacroEnabled is true when the workbook content type is a macro-enabled one.
	MacroEnabled bool
	// HasVBA is true when the container carries a VBA project.
	HasVBA bool
	// VBADigest is the hex SHA-256 of the VBA project bytes, empty when absent.
	VBADigest string
	// Sheets lists sheet names in workbook order.
	Sheets []string
}

// InspectPackage reads the container structure of an xlsx/xlsm file without loading cells.
func InspectPackage(data []byte) (PackageInfo, error) {
	var info PackageInfo
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return info, err
	}

	for _, f := range r.File {
		info.Parts = append(info.Parts, f.Name)
	}

	if ct, err := readZipFile(r, contentTypesPart); err == nil && ct != nil {
		info.WorkbookContentType = parseWorkbookContentType(ct)
		info.MacroEnabled = strings.Contains(info.WorkbookContentType, macroEnabledMarker)
	}

	vba, err := readZipFile(r, vbaProjectPart)
	if err != nil {
		return info, err
	}
	if vba != nil {
		info.HasVBA = true
		sum := sha256.Sum256(vba)
		info.VBADigest = hex.EncodeToString(sum[:])
	}

	if wb, err := readZipFile(r, strings.TrimPrefix(workbookPart, "/")); err == nil && wb != nil {
		info.Sheets = parseSheetNames(wb)
	}

	return info, nil
}

// readZipFile returns the content of the named entry, or nil when it is absent.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

// parseWorkbookContentType finds the Override entry for the workbook part.
func parseWorkbookContentType(data []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Override" {
			continue
		}
		var part, contentType string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "PartName":
				part = attr.Value
			case "ContentType":
				contentType = attr.Value
			}
		}
		if part == workbookPart {
			return contentType
		}
	}
	return ""
}

// parseSheetNames lists the sheet names declared in workbook.xml.
func parseSheetNames(data []byte) []string {
	var names []string
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			for _, attr := range se.Attr {
				if attr.Name.Local == "name" && attr.Value != "" {
					names = append(names, attr.Value)
				}
			}
		}
	}
	return names
}
