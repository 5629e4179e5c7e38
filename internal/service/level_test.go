package service

import "testing"

func TestCalculateLevel_Boundaries(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{449, 3},
		{450, 4},
		{750, 5},
		{4000, 10},
		{74999, 24},
		{75000, 25},
		{229999, 29},
		{230000, 30},
		{1000000, 30},
	}
	for _, c := range cases {
		if got := CalculateLevel(c.xp); got != c.want {
			t.Errorf("CalculateLevel(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestLevelName(t *testing.T) {
	cases := []struct {
		level int
		want  string
	}{
		{1, "Novato"},
		{5, "Explorador"},
		{20, "Líder"},
		{25, "CEO Junior"},
		{30, "Fundador"},
		{99, "Novato"},
	}
	for _, c := range cases {
		if got := LevelName(c.level); got != c.want {
			t.Errorf("LevelName(%d) = %q, want %q", c.level, got, c.want)
		}
	}
}

func TestXpForNextLevel(t *testing.T) {
	if got := XpForNextLevel(0); got != 100 {
		t.Errorf("XpForNextLevel(0) = %d, want 100", got)
	}
	if got := XpForNextLevel(100); got != 150 {
		t.Errorf("XpForNextLevel(100) = %d, want 150", got)
	}
	if got := XpForNextLevel(230000); got != 0 {
		t.Errorf("XpForNextLevel(230000) = %d, want 0", got)
	}
}
