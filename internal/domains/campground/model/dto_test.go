package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCreateCampgroundRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateCampgroundRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  CreateCampgroundRequest{Name: "Granite Hill", Price: decimal.RequireFromString("9.50")},
		},
		{
			name: "free campground is fine",
			req:  CreateCampgroundRequest{Name: "Salmon Creek", Price: decimal.Zero},
		},
		{
			name:    "missing name",
			req:     CreateCampgroundRequest{Price: decimal.NewFromInt(5)},
			wantErr: "name is required",
		},
		{
			name:    "negative price",
			req:     CreateCampgroundRequest{Name: "Mountain Goat's Rest", Price: decimal.NewFromInt(-1)},
			wantErr: "must not be negative",
		},
		{
			name: "largest price the column holds",
			req:  CreateCampgroundRequest{Name: "Big Sky", Price: decimal.RequireFromString("99999999.99")},
		},
		{
			name:    "price overflows the column",
			req:     CreateCampgroundRequest{Name: "Big Sky", Price: decimal.New(1, 8)},
			wantErr: "must be less than 100000000",
		},
		{
			name: "trailing zeros are fine",
			req:  CreateCampgroundRequest{Name: "Cedar Flats", Price: decimal.RequireFromString("9.500")},
		},
		{
			name:    "sub-cent price",
			req:     CreateCampgroundRequest{Name: "Cedar Flats", Price: decimal.RequireFromString("9.999")},
			wantErr: "must have at most 2 decimal places",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestUpdateCampgroundRequest_ValidatePrice(t *testing.T) {
	err := UpdateCampgroundRequest{Name: "Big Sky", Price: decimal.RequireFromString("123456789")}.Validate()
	assert.ErrorContains(t, err, "must be less than 100000000")
}

func TestToCampgroundResponse_OmitsHandle(t *testing.T) {
	c := Campground{Name: "Lake", ImageURL: "https://img/x.jpg", ImageHandle: "campgrounds/x.jpg"}
	resp := ToCampgroundResponse(c)

	assert.Equal(t, "https://img/x.jpg", resp.ImageURL)
	assert.Equal(t, "https://img/x_thumb.jpg", resp.ThumbnailURL)
	assert.NotContains(t, jsonOf(t, resp), "campgrounds/x.jpg")
	assert.NotContains(t, jsonOf(t, c), "campgrounds/x.jpg")
}

func TestToCampgroundResponse_NoImage(t *testing.T) {
	resp := ToCampgroundResponse(Campground{Name: "Lake"})
	assert.Empty(t, resp.ThumbnailURL)
	assert.NotContains(t, jsonOf(t, resp), "thumbnail_url")
}
