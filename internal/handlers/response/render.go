package response

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// FormatOf reads the {format} route variable. Anything but xml renders as json.
func FormatOf(r *http.Request) Format {
	if strings.EqualFold(mux.Vars(r)["format"], string(FormatXML)) {
		return FormatXML
	}
	return FormatJSON
}

func (f Format) ContentType() string {
	if f == FormatXML {
		return "application/xml; charset=utf-8"
	}
	return "application/json"
}

// Write sends data with statusCode in the format the request asked for. A nil
// data writes headers only.
func Write(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	if data == nil {
		w.WriteHeader(statusCode)
		return
	}

	format := FormatOf(r)
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(statusCode)

	if format == FormatXML {
		_, _ = w.Write([]byte(xml.Header))
		_ = xml.NewEncoder(w).Encode(data)
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
