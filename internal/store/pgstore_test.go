package store

import "testing"

func TestNewPgStoreValidatesIdentifiers(t *testing.T) {
	schema := testSchema()

	valid := []struct{ table, column string }{
		{"lidar", "pa"},
		{"public.lidar", "points"},
		{"sig_2024.grand_lyon", "pa"},
	}
	for _, tc := range valid {
		if _, err := NewPgStore(nil, tc.table, tc.column, 4326, schema); err != nil {
			t.Errorf("NewPgStore(%q, %q) unexpected error: %v", tc.table, tc.column, err)
		}
	}

	invalid := []struct{ table, column string }{
		{"lidar; drop table users", "pa"},
		{"lidar", "pa--"},
		{"", "pa"},
		{"lidar", ""},
		{"a.b.c", "pa"},
		{`lidar"`, "pa"},
		{"lidar", "pa points"},
	}
	for _, tc := range invalid {
		if _, err := NewPgStore(nil, tc.table, tc.column, 4326, schema); err == nil {
			t.Errorf("NewPgStore(%q, %q) accepted a bad identifier", tc.table, tc.column)
		}
	}
}
