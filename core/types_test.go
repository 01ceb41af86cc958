package core

import "testing"

func TestParseAPI(t *testing.T) {
	cases := []struct {
		name string
		api  API
		ok   bool
	}{
		{"vulkan", Vulkan, true},
		{"VK", Vulkan, true},
		{"opengl", OpenGL, true},
		{"gl", OpenGL, true},
		{"metal", 0, false},
	}

	for _, c := range cases {
		api, err := ParseAPI(c.name)
		if (err == nil) != c.ok {
			t.Errorf("%q: unexpected error state: %v", c.name, err)
			continue
		}
		if c.ok && api != c.api {
			t.Errorf("%q: expected %v, got %v", c.name, c.api, api)
		}
	}
}

func TestCycle(t *testing.T) {
	palette := []Color{ColorBlack, ColorWhite}

	if c := Cycle(palette, 0); c != ColorBlack {
		t.Errorf("expected black at phase 0, got %+v", c)
	}
	if c := Cycle(palette, 0.5); c.R != 0.5 || c.A != 1 {
		t.Errorf("expected mid grey at phase 0.5, got %+v", c)
	}
	if c := Cycle(palette, 1); c != ColorWhite {
		t.Errorf("expected white at phase 1, got %+v", c)
	}
	// wraps back to black
	if c := Cycle(palette, 1.5); c.R != 0.5 {
		t.Errorf("expected mid grey at phase 1.5, got %+v", c)
	}
	if c := Cycle(palette, -1); c != ColorWhite {
		t.Errorf("expected white at phase -1, got %+v", c)
	}
	if c := Cycle(nil, 3); c != ColorBlack {
		t.Errorf("expected black for an empty palette, got %+v", c)
	}
}
