package utils

import "encoding/base64"

// DecodeB64 decodes URL safe base64 with or without padding. Some wallets
// still put standard encoding to invitation URLs, so it's tried last.
func DecodeB64(str string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(str)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(str)
	}
	if err != nil {
		data, err = base64.StdEncoding.DecodeString(str)
	}
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(str)
	}
	return data, err
}

// EncodeB64 encodes URL safe base64 without padding. Padding '=' chars would
// be ambiguous with the query markers of invitation URLs.
func EncodeB64(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}
