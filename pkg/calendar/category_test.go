package calendar

import "testing"

func TestNormalizeCategory_KnownKeys(t *testing.T) {
	cases := map[string]Category{
		"school":     CategorySchool,
		"School":     CategorySchool,
		"SCHOOL":     CategorySchool,
		"personal":   CategoryPersonal,
		"assignment": CategoryAssignment,
		" Assignment ": CategoryAssignment,
	}
	for input, want := range cases {
		if got := NormalizeCategory(input); got != want {
			t.Errorf("NormalizeCategory(%q)=%s，期望 %s", input, got, want)
		}
	}
}

func TestNormalizeCategory_HexColors(t *testing.T) {
	cases := map[string]Category{
		"#05BAAE":          CategorySchool,
		"#05baae":          CategorySchool,
		"#F2C94C":          CategoryPersonal,
		"#9b51e0":          CategoryAssignment,
		"dot #05BAAE":      CategorySchool, // 子串匹配
		"color:#9B51E0;":   CategoryAssignment,
		"background#f2c94c": CategoryPersonal,
	}
	for input, want := range cases {
		if got := NormalizeCategory(input); got != want {
			t.Errorf("NormalizeCategory(%q)=%s，期望 %s", input, got, want)
		}
	}
}

func TestNormalizeCategory_HexSubstringStable(t *testing.T) {
	// 同时携带多个色值的输入必须解析到固定分类，不随遍历顺序漂移
	input := "#9b51e0 #05baae"
	want := NormalizeCategory(input)
	if want != CategorySchool {
		t.Fatalf("NormalizeCategory(%q)=%s，期望 %s", input, want, CategorySchool)
	}
	for i := 0; i < 100; i++ {
		if got := NormalizeCategory(input); got != want {
			t.Fatalf("第 %d 次解析结果漂移: %s != %s", i, got, want)
		}
	}
}

func TestNormalizeCategory_FallbackAndClosure(t *testing.T) {
	inputs := []string{"", "bogus", "   ", "#123456", "study", "학교"}
	for _, input := range inputs {
		got := NormalizeCategory(input)
		if !got.Valid() {
			t.Errorf("NormalizeCategory(%q)=%s 不在闭集内", input, got)
		}
	}
	if got := NormalizeCategory("bogus"); got != CategoryPersonal {
		t.Errorf("未识别输入应兜底 personal，实际=%s", got)
	}
}

func TestNormalizeCategory_Idempotent(t *testing.T) {
	inputs := []string{"school", "SCHOOL", "#05baae", "bogus", "", "assignment"}
	for _, input := range inputs {
		once := NormalizeCategory(input)
		twice := NormalizeCategory(string(once))
		if once != twice {
			t.Errorf("幂等性被破坏: %q → %s → %s", input, once, twice)
		}
	}
}
