package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML preset file and returns the parsed File with raw bytes.
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*File, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&f); err != nil {
		return nil, nil, err
	}

	if err := Validate(&f); err != nil {
		return nil, data, err
	}

	return &f, data, nil
}

// Hash generates a SHA256 hash of the File via canonical JSON.
// 주의: struct 필드 순서가 결정적이므로 해시 재현성 보장
func Hash(f *File) (string, error) {
	jsonBytes, err := json.Marshal(f)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewRunSnapshot captures the preset file state for a simulation run
func NewRunSnapshot(f *File, yamlData []byte, fileName string) (*RunSnapshot, error) {
	hash, err := Hash(f)
	if err != nil {
		return nil, err
	}

	return &RunSnapshot{
		ConfigHash: hash,
		ConfigYAML: string(yamlData),
		FileName:   fileName,
		CreatedAt:  time.Now(),
	}, nil
}
