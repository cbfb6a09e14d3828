// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"io"
	"io/ioutil"
	"mime"
	"net/url"

	"github.com/mitchellh/mapstructure"
	"github.com/ugorji/go/codec"
)

// Decode tries to decode a restdata object from a reader, such as an
// HTTP request or response.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		// We could also consider http.DetectContentType()
		contentType = "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return err
	}

	// Promote to more specific types
	switch mediaType {
	case "text/json", "application/json", JSONMediaType, V1JSONMediaType:
		mediaType = V1JSONMediaType
	case FormMediaType:
	default:
		return ErrUnsupportedMediaType{Type: mediaType}
	}

	// Actually decode the object based on the selected type.
	switch mediaType {
	case V1JSONMediaType:
		json := &codec.JsonHandle{}
		decoder := codec.NewDecoder(r, json)
		err = decoder.Decode(out)
	case FormMediaType:
		err = decodeForm(r, out)
	default:
		err = ErrUnsupportedMediaType{Type: mediaType}
	}
	return err
}

// decodeForm reads a URL-encoded form body.  Each form field becomes
// a string value; if a field is repeated, only its first value is
// kept.  The resulting map is then copied into out, which can be a
// pointer to a generic map or to a struct with json tags.
func decodeForm(r io.Reader, out interface{}) error {
	body, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return err
	}
	form := make(map[string]interface{}, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			form[key] = vs[0]
		}
	}

	if m, isMap := out.(*map[string]interface{}); isMap {
		*m = form
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(form)
}

// Encode writes a restdata object to w as JSON.
func Encode(w io.Writer, in interface{}) error {
	json := &codec.JsonHandle{}
	encoder := codec.NewEncoder(w, json)
	return encoder.Encode(in)
}
