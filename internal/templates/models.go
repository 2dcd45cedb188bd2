package templates

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// InvalidVariablesError reports a variables payload that is neither a
// name→value object nor a list of {name, value} records.
type InvalidVariablesError struct {
	Reason string
}

func (e *InvalidVariablesError) Error() string {
	return "invalid variables: " + e.Reason
}

// variableRecord is one entry of the record-list form of the variables
// payload.
type variableRecord struct {
	Name  *string     `json:"name"`
	Value interface{} `json:"value"`
}

// NormalizeVariables accepts a JSON object mapping names to values, or a
// JSON array of {name, value} records, and returns a name→value map with
// every value coerced to text. Null or missing values become empty
// strings; records without a name are dropped silently.
func NormalizeVariables(raw []byte) (map[string]string, error) {
	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err == nil {
		vars := make(map[string]string, len(asMap))
		for name, value := range asMap {
			vars[name] = coerceText(value)
		}
		return vars, nil
	}

	var asRecords []variableRecord
	if err := json.Unmarshal(raw, &asRecords); err == nil {
		vars := make(map[string]string, len(asRecords))
		for _, rec := range asRecords {
			if rec.Name == nil {
				continue
			}
			vars[*rec.Name] = coerceText(rec.Value)
		}
		return vars, nil
	}

	return nil, &InvalidVariablesError{Reason: "expected an object or a list of {name, value} records"}
}

func coerceText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// UploadOptions control where a rendered artifact lands in the object
// store and how long its retrieval link stays valid. Zero values fall
// back to the service defaults.
type UploadOptions struct {
	Bucket string
	Prefix string
	Key    string
	TTL    time.Duration
}

// ExtractResponse is the extract-variables endpoint payload.
type ExtractResponse struct {
	Variables []string `json:"variables"`
	Count     int      `json:"count"`
}

// ExtractConvertResponse is the extract-and-convert endpoint payload.
type ExtractConvertResponse struct {
	Variables []string `json:"variables"`
	PDFBase64 string   `json:"pdfBase64"`
}

// UploadResponse is the payload of the upload-and-presign variants.
type UploadResponse struct {
	Variables    []string `json:"variables"`
	PresignedURL string   `json:"presignedUrl"`
}
