package bit

import "testing"

func TestCombine(t *testing.T) {
	if got := Combine(0x12, 0x34); got != 0x1234 {
		t.Errorf("Combine(0x12, 0x34) = 0x%04X, want 0x1234", got)
	}
}

func TestHighLow(t *testing.T) {
	if got := High(0x1234); got != 0x12 {
		t.Errorf("High(0x1234) = 0x%02X, want 0x12", got)
	}
	if got := Low(0x1234); got != 0x34 {
		t.Errorf("Low(0x1234) = 0x%02X, want 0x34", got)
	}
}

func TestCheckedAdd(t *testing.T) {
	tests := []struct {
		a, b     uint8
		want     uint8
		overflow bool
	}{
		{0, 0, 0, false},
		{100, 100, 200, false},
		{200, 100, 44, true},
		{255, 1, 0, true},
		{255, 255, 254, true},
	}
	for _, tt := range tests {
		got, overflow := CheckedAdd(tt.a, tt.b)
		if got != tt.want || overflow != tt.overflow {
			t.Errorf("CheckedAdd(%d, %d) = (%d, %v), want (%d, %v)",
				tt.a, tt.b, got, overflow, tt.want, tt.overflow)
		}
	}
}

func TestCheckedSub(t *testing.T) {
	tests := []struct {
		a, b   uint8
		want   uint8
		borrow bool
	}{
		{0, 0, 0, false},
		{100, 50, 50, false},
		{50, 100, 206, true},
		{0, 1, 255, true},
	}
	for _, tt := range tests {
		got, borrow := CheckedSub(tt.a, tt.b)
		if got != tt.want || borrow != tt.borrow {
			t.Errorf("CheckedSub(%d, %d) = (%d, %v), want (%d, %v)",
				tt.a, tt.b, got, borrow, tt.want, tt.borrow)
		}
	}
}

func TestInstructionFields(t *testing.T) {
	const word = 0xDAB5

	if got := NibbleX(word); got != 0xA {
		t.Errorf("NibbleX = %X, want A", got)
	}
	if got := NibbleY(word); got != 0xB {
		t.Errorf("NibbleY = %X, want B", got)
	}
	if got := NibbleN(word); got != 0x5 {
		t.Errorf("NibbleN = %X, want 5", got)
	}
	if got := Imm(word); got != 0xB5 {
		t.Errorf("Imm = %X, want B5", got)
	}
	if got := Addr(word); got != 0xAB5 {
		t.Errorf("Addr = %X, want AB5", got)
	}
}
