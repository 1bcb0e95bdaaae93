// Package model provides value objects for API parameter validation.
package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxVisualizationNameLength = 100

// VisualizationName represents a visualization name value object.
type VisualizationName struct {
	value string
}

// NewVisualizationName creates a new visualization name value object.
func NewVisualizationName(name string) (*VisualizationName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name is required")
	}
	if utf8.RuneCountInString(name) > maxVisualizationNameLength {
		return nil, NewValidationError(fmt.Sprintf("name must be at most %d characters", maxVisualizationNameLength))
	}
	return &VisualizationName{value: name}, nil
}

// String returns the visualization name string.
func (n *VisualizationName) String() string {
	return n.value
}

// ParseVisualizationID parses a visualization ID from a path parameter.
func ParseVisualizationID(idStr string) (uuid.UUID, error) {
	if idStr == "" {
		return uuid.Nil, NewValidationError("visualization ID is required")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError("invalid UUID format")
	}

	return id, nil
}

// RenderFormat represents the output image format.
type RenderFormat string

const (
	FormatSVG RenderFormat = "svg"
	FormatPNG RenderFormat = "png"
)

// NewRenderFormat creates a render format, defaulting to SVG.
func NewRenderFormat(s string) (RenderFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", NewValidationError(fmt.Sprintf("unsupported format %q. Use svg or png", s))
}

// ContentType returns the MIME type of the format.
func (f RenderFormat) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// maxRenderSize caps the requested render box in pixels.
const maxRenderSize = 10000

// Size represents the render box. Zero means automatic.
type Size struct {
	width  int
	height int
}

// NewSize creates a new size value object.
func NewSize(width, height int) (*Size, error) {
	if width < 0 || height < 0 {
		return nil, NewValidationError("width and height must be non-negative")
	}
	if width > maxRenderSize || height > maxRenderSize {
		return nil, NewValidationError(fmt.Sprintf("width and height must be at most %d", maxRenderSize))
	}
	return &Size{width: width, height: height}, nil
}

// Width returns the width in pixels.
func (s *Size) Width() int {
	return s.width
}

// Height returns the height in pixels.
func (s *Size) Height() int {
	return s.height
}

// Timezone represents the location used to resolve calendar days.
type Timezone struct {
	loc *time.Location
}

// NewTimezone creates a timezone value object. An empty name means UTC.
func NewTimezone(name string) (*Timezone, error) {
	if name == "" {
		return &Timezone{loc: time.UTC}, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("unknown timezone %q", name))
	}
	return &Timezone{loc: loc}, nil
}

// Location returns the time.Location.
func (t *Timezone) Location() *time.Location {
	return t.loc
}

// Pagination represents pagination parameters value object.
type Pagination struct {
	limit  int
	offset int
}

// NewPagination creates a new pagination value object.
func NewPagination(limitStr, offsetStr string) (*Pagination, error) {
	limit := 100 // Default value
	offset := 0  // Default value

	// Process limit parameter
	if limitStr != "" {
		parsedLimit, err := parseInt(limitStr)
		if err != nil {
			return nil, NewValidationError("invalid limit parameter: must be a positive integer")
		}
		if parsedLimit <= 0 {
			return nil, NewValidationError("limit must be greater than 0")
		}
		if parsedLimit > 1000 { // Set upper limit
			parsedLimit = 1000
		}
		limit = parsedLimit
	}

	// Process offset parameter
	if offsetStr != "" {
		parsedOffset, err := parseInt(offsetStr)
		if err != nil {
			return nil, NewValidationError("invalid offset parameter: must be a non-negative integer")
		}
		if parsedOffset < 0 {
			return nil, NewValidationError("offset must be non-negative")
		}
		offset = parsedOffset
	}

	return &Pagination{limit: limit, offset: offset}, nil
}

// Limit returns the limit value.
func (p *Pagination) Limit() int {
	return p.limit
}

// Offset returns the offset value.
func (p *Pagination) Offset() int {
	return p.offset
}

// parseInt converts a string to an integer and handles errors.
func parseInt(s string) (int, error) {
	var value int
	var rest string
	n, _ := fmt.Sscanf(s, "%d%s", &value, &rest)
	if n != 1 {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return value, nil
}
