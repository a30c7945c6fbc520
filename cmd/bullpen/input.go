// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/bullpen/internal/api"
	"github.com/tomtom215/bullpen/internal/models"
	"github.com/tomtom215/bullpen/internal/validation"
)

// maxInputBytes bounds request files.
const maxInputBytes = 1 << 20

// request is a decoded and validated request file.
type request struct {
	State      models.GameState
	Candidates []models.Candidate
}

// readRequest loads a request file. The extension picks the decoder; stdin
// and unrecognised extensions try JSON first and fall back to YAML.
func readRequest(path string, stdin io.Reader) (*request, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}

	var req api.RecommendRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = decodeJSON(data, &req)
	case ".yaml", ".yml":
		err = decodeYAML(data, &req)
	default:
		if err = decodeJSON(data, &req); err != nil {
			req = api.RecommendRequest{}
			err = decodeYAML(data, &req)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	state, err := req.State.GameState()
	if err != nil {
		return nil, err
	}
	return &request{State: state, Candidates: req.Candidates()}, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path) //nolint:gosec // operator-provided input path
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(data) > maxInputBytes {
		return nil, fmt.Errorf("input exceeds %d bytes", maxInputBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("input is empty")
	}
	return data, nil
}

func decodeJSON(data []byte, dst *api.RecommendRequest) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func decodeYAML(data []byte, dst *api.RecommendRequest) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(dst)
}
