// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package validation

import (
	"strings"
	"testing"
)

type tryRequest struct {
	UserID        string  `json:"userId" validate:"required,max=100"`
	RestaurantIDs []int64 `json:"restaurantIds" validate:"required,min=1,max=50,dive,gt=0"`
}

type filterRequest struct {
	Area    string `json:"area" validate:"omitempty,max=100"`
	Cuisine string `json:"cuisine" validate:"omitempty,cuisine"`
}

type catalogEntry struct {
	Name     string   `json:"name" validate:"required"`
	Cuisines []string `json:"cuisineTypes" validate:"required,min=1,dive,cuisine"`
	Internal string   `json:"-" validate:"omitempty,oneof=a b"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one shared instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input interface{}
	}{
		{"tried marks", &tryRequest{UserID: "alice", RestaurantIDs: []int64{1, 2, 3}}},
		{"empty filter", &filterRequest{}},
		{"area filter", &filterRequest{Area: "Shaw"}},
		{"cuisine filter", &filterRequest{Cuisine: "Middle Eastern"}},
		{"unicode cuisine", &filterRequest{Cuisine: "Café"}},
		{"catalog entry", &catalogEntry{Name: "Maydan", Cuisines: []string{"Middle Eastern", "Grill"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{"missing user", &tryRequest{RestaurantIDs: []int64{1}}, "userId", "required"},
		{"no restaurants", &tryRequest{UserID: "alice", RestaurantIDs: []int64{}}, "restaurantIds", "min"},
		{"non-positive id", &tryRequest{UserID: "alice", RestaurantIDs: []int64{1, 0}}, "restaurantIds[1]", "gt"},
		{"long user", &tryRequest{UserID: strings.Repeat("u", 101), RestaurantIDs: []int64{1}}, "userId", "max"},
		{"blank cuisine", &filterRequest{Cuisine: "   "}, "cuisine", "cuisine"},
		{"padded cuisine", &filterRequest{Cuisine: " Thai"}, "cuisine", "cuisine"},
		{"control char cuisine", &filterRequest{Cuisine: "Thai\x00"}, "cuisine", "cuisine"},
		{"long cuisine", &filterRequest{Cuisine: strings.Repeat("x", 51)}, "cuisine", "cuisine"},
		{"blank catalog cuisine", &catalogEntry{Name: "X", Cuisines: []string{""}}, "cuisineTypes[0]", "cuisine"},
		{"json dash uses field name", &catalogEntry{Name: "X", Cuisines: []string{"Thai"}, Internal: "c"}, "Internal", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&tryRequest{RestaurantIDs: []int64{1}})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != ErrorCode {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "userId is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "userId" || apiErr.Details["tag"] != "required" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&tryRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(err.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "userId is required") || !strings.Contains(apiErr.Message, "restaurantIds is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if err.Error() != apiErr.Message {
		t.Errorf("Error() = %q, want %q", err.Error(), apiErr.Message)
	}
}

func TestToAPIError_Empty(t *testing.T) {
	t.Parallel()

	var ve RequestValidationError
	if ve.Error() != "validation failed" {
		t.Errorf("Error() = %q", ve.Error())
	}
	if apiErr := ve.ToAPIError(); apiErr.Code != ErrorCode || apiErr.Message != "Validation failed" {
		t.Errorf("ToAPIError() = %+v", apiErr)
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"string max", &tryRequest{UserID: strings.Repeat("u", 101), RestaurantIDs: []int64{1}}, "userId must be at most 100 characters"},
		{"slice min", &tryRequest{UserID: "a", RestaurantIDs: []int64{}}, "restaurantIds must be at least 1 items"},
		{"gt", &tryRequest{UserID: "a", RestaurantIDs: []int64{-1}}, "restaurantIds[0] must be greater than 0"},
		{"cuisine", &filterRequest{Cuisine: " "}, "cuisine must be a non-blank cuisine of at most 50 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("message = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}
