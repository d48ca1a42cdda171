package actions

import (
	"errors"
	"testing"

	"stagehand/internal/config"
	"stagehand/internal/harvest"
	"stagehand/internal/services"
)

func TestMapperRuleOrder(t *testing.T) {
	mapper := NewMapper([]Rule{
		{Prefix: "/shared/galaxy", Kind: KindCopy},
		{Prefix: "/shared", Kind: KindNone},
	}, KindRemoteTransfer)

	cases := []struct {
		path string
		want string
	}{
		{"/shared/galaxy/files/dataset_1.dat", KindCopy},
		{"/shared/other/file", KindNone},
		{"/elsewhere/file", KindRemoteTransfer},
	}
	for _, tc := range cases {
		action, err := mapper.Action(tc.path, harvest.CategoryOutput)
		if err != nil {
			t.Fatalf("Action(%q): %v", tc.path, err)
		}
		if action.Kind != tc.want {
			t.Errorf("Action(%q) = %q, want %q", tc.path, action.Kind, tc.want)
		}
	}
}

func TestMapperRejectsLegacyCategory(t *testing.T) {
	mapper := NewMapper(nil, "")
	_, err := mapper.Action("/data/out", harvest.CategoryLegacy)
	if err == nil {
		t.Fatal("legacy category must not be mappable")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestMapperRejectsEmptyPath(t *testing.T) {
	mapper := NewMapper(nil, "")
	if _, err := mapper.Action("  ", harvest.CategoryWorkDir); err == nil {
		t.Fatal("empty path must not resolve")
	}
}

func TestNewMapperFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Harvest.DefaultAction = KindNone
	cfg.Harvest.PathRules = []config.PathRule{{Prefix: "/data", Action: KindCopy}}

	mapper := NewMapperFromConfig(&cfg)
	action, err := mapper.Action("/data/out", harvest.CategoryOutput)
	if err != nil {
		t.Fatalf("Action: %v", err)
	}
	if action.Kind != KindCopy {
		t.Errorf("rule not applied, got %q", action.Kind)
	}
	action, err = mapper.Action("/other/out", harvest.CategoryOutput)
	if err != nil {
		t.Fatalf("Action: %v", err)
	}
	if action.Kind != KindNone {
		t.Errorf("default not applied, got %q", action.Kind)
	}
}
