package jq

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/itchyny/gojq"
)

func PerformJqQueryOnFile(filePath string, jqQuery string) ([]byte, error) {
	jsonContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return PerformJqQuery(jsonContent, jqQuery)
}

func PerformJqQuery(jsonContent []byte, jqQuery string) ([]byte, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, err
	}

	var jsonData interface{}
	if err := json.Unmarshal(jsonContent, &jsonData); err != nil {
		return nil, err
	}

	iter := query.Run(jsonData)
	v, ok := iter.Next()
	if !ok {
		return nil, fmt.Errorf("key not found")
	}
	if err, ok := v.(error); ok {
		return nil, err
	}

	result, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return result, nil
}
