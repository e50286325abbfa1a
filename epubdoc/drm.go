package epubdoc

import (
	"strings"

	"github.com/tsawler/structura/internal/ooxml"
)

type encryptionXML struct {
	Data []struct {
		Method struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"EncryptionMethod"`
		Reference struct {
			URI string `xml:"URI,attr"`
		} `xml:"CipherData>CipherReference"`
	} `xml:"EncryptedData"`
}

// checkDRM rejects Adobe ADEPT packages and packages whose markup or style
// sheets are encrypted. Font obfuscation is allowed.
func checkDRM(arc *ooxml.Archive) error {
	if arc.Has("META-INF/rights.xml") {
		return ErrDRMProtected
	}
	if !arc.Has("META-INF/encryption.xml") {
		return nil
	}
	var enc encryptionXML
	if err := arc.Unmarshal("META-INF/encryption.xml", &enc); err != nil {
		return ErrDRMProtected
	}
	for _, d := range enc.Data {
		if isFontObfuscation(d.Method.Algorithm) {
			continue
		}
		if isContentFile(d.Reference.URI) {
			return ErrDRMProtected
		}
	}
	return nil
}

func isFontObfuscation(algorithm string) bool {
	return strings.Contains(algorithm, "obfuscation") &&
		(strings.Contains(algorithm, "adobe.com") || strings.Contains(algorithm, "idpf.org"))
}

func isContentFile(uri string) bool {
	uri = strings.ToLower(uri)
	for _, ext := range []string{".xhtml", ".html", ".htm", ".xml", ".css"} {
		if strings.HasSuffix(uri, ext) {
			return true
		}
	}
	return false
}
