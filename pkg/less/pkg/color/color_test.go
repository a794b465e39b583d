// Golang port of Overleaf
// Copyright (C) 2023 Jakob Ackermann <das7pad@outlook.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package color

import (
	"testing"
)

func TestHSL_ToRGB_roundTrip(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
	}{
		{name: "black", c: RGBA{R: 0, G: 0, B: 0, A: 1}},
		{name: "white", c: RGBA{R: 255, G: 255, B: 255, A: 1}},
		{name: "red", c: RGBA{R: 255, G: 0, B: 0, A: 1}},
		{name: "azure", c: RGBA{R: 0, G: 128, B: 255, A: 1}},
		{name: "magenta-ish", c: RGBA{R: 200, G: 30, B: 120, A: 0.5}},
		{name: "green-ish", c: RGBA{R: 18, G: 200, B: 90, A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRGB(tt.c).ToRGB()
			for i, pair := range [][2]float64{
				{got.R, tt.c.R}, {got.G, tt.c.G}, {got.B, tt.c.B},
			} {
				d := int(Clamp(pair[0])) - int(Clamp(pair[1]))
				if d < -1 || d > 1 {
					t.Errorf("channel %d: got %v, want %v", i, pair[0], pair[1])
				}
			}
			if got.A != tt.c.A {
				t.Errorf("alpha: got %v, want %v", got.A, tt.c.A)
			}
		})
	}
}

func TestFromRGB(t *testing.T) {
	got := FromRGB(RGBA{R: 128, G: 230, B: 25, A: 1})
	if d := got.Degrees(); d < 89.5 || d > 90.5 {
		t.Errorf("FromRGB() hue = %v, want 90", d)
	}
	if got.S < 0.79 || got.S > 0.81 {
		t.Errorf("FromRGB() saturation = %v, want 0.8", got.S)
	}
	if got.L < 0.49 || got.L > 0.51 {
		t.Errorf("FromRGB() lightness = %v, want 0.5", got.L)
	}
}

func TestNewHSL(t *testing.T) {
	got := NewHSL(-0.25, 1.5, -1, 2)
	want := HSL{H: 0.75, S: 1, L: 0, A: 1}
	if got != want {
		t.Errorf("NewHSL() = %v, want %v", got, want)
	}
}

func TestMix(t *testing.T) {
	white := RGBA{R: 255, G: 255, B: 255, A: 1}
	black := RGBA{R: 0, G: 0, B: 0, A: 1}
	type args struct {
		a      RGBA
		b      RGBA
		weight float64
	}
	tests := []struct {
		name string
		args args
		want [4]float64
	}{
		{
			name: "midpoint",
			args: args{a: white, b: black, weight: 0.5},
			want: [4]float64{128, 128, 128, 1},
		},
		{
			name: "all of a",
			args: args{a: white, b: black, weight: 1},
			want: [4]float64{255, 255, 255, 1},
		},
		{
			name: "none of a",
			args: args{a: white, b: black, weight: 0},
			want: [4]float64{0, 0, 0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mix(tt.args.a, tt.args.b, tt.args.weight)
			gotB := [4]float64{
				float64(Clamp(got.R)),
				float64(Clamp(got.G)),
				float64(Clamp(got.B)),
				got.A,
			}
			if gotB != tt.want {
				t.Errorf("Mix() = %v, want %v", gotB, tt.want)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	type args struct {
		mode     BlendMode
		backdrop RGBA
		source   RGBA
	}
	tests := []struct {
		name string
		args args
		want [3]uint8
	}{
		{
			name: "multiply",
			args: args{
				mode:     Multiply,
				backdrop: RGBA{R: 255, G: 102, B: 0, A: 1},
				source:   RGBA{R: 204, G: 204, B: 204, A: 1},
			},
			want: [3]uint8{204, 82, 0},
		},
		{
			name: "screen with black is identity",
			args: args{
				mode:     Screen,
				backdrop: RGBA{R: 255, G: 102, B: 0, A: 1},
				source:   RGBA{R: 0, G: 0, B: 0, A: 1},
			},
			want: [3]uint8{255, 102, 0},
		},
		{
			name: "average",
			args: args{
				mode:     Average,
				backdrop: RGBA{R: 255, G: 102, B: 0, A: 1},
				source:   RGBA{R: 0, G: 0, B: 0, A: 1},
			},
			want: [3]uint8{128, 51, 0},
		},
		{
			name: "difference truncates",
			args: args{
				mode:     Difference,
				backdrop: RGBA{R: 255, G: 102, B: 200, A: 1},
				source:   RGBA{R: 51, G: 51, B: 100, A: 1},
			},
			want: [3]uint8{204, 50, 99},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(tt.args.mode, tt.args.backdrop, tt.args.source)
			r, g, b := tt.args.mode.Bytes(got)
			if [3]uint8{r, g, b} != tt.want {
				t.Errorf("Blend() = %v, want %v", [3]uint8{r, g, b}, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v    float64
		want uint8
	}{
		{v: 0x110, want: 0x10},
		{v: 255.9, want: 255},
		{v: -1, want: 255},
		{v: 512, want: 0},
	}
	for _, tt := range tests {
		if got := Wrap(tt.v); got != tt.want {
			t.Errorf("Wrap(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
