package netsuite

import (
	"bytes"
	"encoding/json"
)

// str decodes a SuiteQL column value that may arrive as a JSON string,
// number, or null. SuiteQL is not consistent about numeric columns.
type str string

func (s *str) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = str(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = str(n.String())
	return nil
}
