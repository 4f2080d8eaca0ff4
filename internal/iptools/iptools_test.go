package iptools

import (
	"errors"
	"testing"
)

func TestValidIP(t *testing.T) {
	valid := []string{"0.0.0.0", "255.255.255.255", "192.168.1.5", "10.0.0.1"}
	for _, s := range valid {
		if !ValidIP(s) {
			t.Errorf("ValidIP(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"", "0.0.0", "0.0.0.0.0", "255.255.256.255", "1.2.3.4/24",
		"1.2.3.4-1.2.3.5", " 1.2.3.4", "1.2.3.4 ", "a.b.c.d", "1..2.3",
	}
	for _, s := range invalid {
		if ValidIP(s) {
			t.Errorf("ValidIP(%q) = true, want false", s)
		}
	}
}

func TestValidSubnet(t *testing.T) {
	valid := []string{"0.0.0.0/0", "0.0.0.0/31", "255.255.255.255/0", "255.255.255.255/01", "192.168.1.130/24"}
	for _, s := range valid {
		if !ValidSubnet(s) {
			t.Errorf("ValidSubnet(%q) = false, want true", s)
		}
	}

	invalid := []string{"255.255.255.255/32", "255.255.255.255/001", "1.2.3.4", "1.2.3.4/", "1.2.3.4/24x"}
	for _, s := range invalid {
		if ValidSubnet(s) {
			t.Errorf("ValidSubnet(%q) = true, want false", s)
		}
	}
}

func TestValidRange(t *testing.T) {
	valid := []string{"0.0.0.0-0.0.0.1", "0.0.0.0-0.0.0.0", "255.255.255.255-0.0.0.0"}
	for _, s := range valid {
		if !ValidRange(s) {
			t.Errorf("ValidRange(%q) = false, want true", s)
		}
	}
	if ValidRange("0.0.0.0-") || ValidRange("0.0.0.0") {
		t.Error("expected malformed ranges to be rejected")
	}
}

func TestIsPublic(t *testing.T) {
	private := []string{"10.0.0.1", "10.255.255.255", "172.16.0.1", "172.31.255.254", "192.168.0.1", "192.168.255.255"}
	for _, s := range private {
		public, err := IsPublic(s)
		if err != nil {
			t.Fatalf("IsPublic(%q): %v", s, err)
		}
		if public {
			t.Errorf("IsPublic(%q) = true, want false", s)
		}
	}

	public := []string{"8.8.8.8", "203.0.113.9", "172.15.255.255", "172.32.0.0", "11.0.0.0", "192.169.0.0"}
	for _, s := range public {
		got, err := IsPublic(s)
		if err != nil {
			t.Fatalf("IsPublic(%q): %v", s, err)
		}
		if !got {
			t.Errorf("IsPublic(%q) = false, want true", s)
		}
	}

	if _, err := IsPublic("not an ip"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIntConversionRoundTrip(t *testing.T) {
	cases := map[string]uint32{
		"0.0.0.0":         0,
		"0.0.0.1":         1,
		"0.0.1.0":         256,
		"1.0.0.0":         1 << 24,
		"255.255.255.255": 0xFFFFFFFF,
		"192.168.1.5":     0xC0A80105,
	}
	for ip, want := range cases {
		v, err := IPToInt(ip)
		if err != nil {
			t.Fatalf("IPToInt(%q): %v", ip, err)
		}
		if v != want {
			t.Errorf("IPToInt(%q) = %d, want %d", ip, v, want)
		}
		if back := IntToIP(v); back != ip {
			t.Errorf("IntToIP(IPToInt(%q)) = %q", ip, back)
		}
	}

	// Spot-check the bijection away from the octet boundaries.
	for _, v := range []uint32{0, 1, 255, 256, 65535, 65536, 0x7FFFFFFF, 0x80000000, 0xFFFFFFFE, 0xFFFFFFFF} {
		got, err := IPToInt(IntToIP(v))
		if err != nil {
			t.Fatalf("IPToInt(IntToIP(%d)): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip of %d gave %d", v, got)
		}
	}
}

func TestSubnetFloor(t *testing.T) {
	cases := map[string]string{
		"255.255.255.255/0":  "0.0.0.0",
		"255.255.255.255/1":  "128.0.0.0",
		"255.255.255.255/16": "255.255.0.0",
		"255.255.255.255/31": "255.255.255.254",
		"192.168.1.130/24":   "192.168.1.0",
		"192.168.1.130/25":   "192.168.1.128",
		"10.0.0.7/30":        "10.0.0.4",
	}
	for subn, want := range cases {
		got, err := SubnetFloor(subn)
		if err != nil {
			t.Fatalf("SubnetFloor(%q): %v", subn, err)
		}
		if got != want {
			t.Errorf("SubnetFloor(%q) = %q, want %q", subn, got, want)
		}
	}

	if _, err := SubnetFloor("10.0.0.0/32"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for /32, got %v", err)
	}
}

func TestSubnetBounds(t *testing.T) {
	cases := []struct {
		subn         string
		lower, upper string
	}{
		{"0.0.0.0/0", "0.0.0.0", "255.255.255.255"},
		{"0.0.0.0/16", "0.0.0.0", "0.0.255.255"},
		{"0.0.0.0/31", "0.0.0.0", "0.0.0.1"},
		{"128.255.255.255/1", "128.0.0.0", "255.255.255.255"},
		{"10.0.0.0/30", "10.0.0.0", "10.0.0.3"},
	}
	for _, tt := range cases {
		lower, upper, err := SubnetBoundsIP(tt.subn)
		if err != nil {
			t.Fatalf("SubnetBoundsIP(%q): %v", tt.subn, err)
		}
		if lower != tt.lower || upper != tt.upper {
			t.Errorf("SubnetBoundsIP(%q) = (%q, %q), want (%q, %q)",
				tt.subn, lower, upper, tt.lower, tt.upper)
		}
	}
}

func TestSubnetContains(t *testing.T) {
	in := []struct{ subn, target string }{
		{"0.0.0.0/0", "0.0.0.0"},
		{"0.0.0.0/0", "255.255.255.255"},
		{"0.0.0.0/16", "0.0.255.255"},
		{"192.168.1.0/24", "192.168.1.130"},
		{"192.168.0.0/16", "192.168.1.0/24"},
		{"10.0.0.0/8", "10.0.0.0/8"},
	}
	for _, tt := range in {
		ok, err := SubnetContains(tt.subn, tt.target)
		if err != nil {
			t.Fatalf("SubnetContains(%q, %q): %v", tt.subn, tt.target, err)
		}
		if !ok {
			t.Errorf("SubnetContains(%q, %q) = false, want true", tt.subn, tt.target)
		}
	}

	out := []struct{ subn, target string }{
		{"192.168.1.0/24", "192.168.2.0"},
		{"10.0.0.0/8", "11.0.0.0"},
		{"192.168.1.0/24", "192.168.0.0/16"}, // target subnet overflows
	}
	for _, tt := range out {
		ok, err := SubnetContains(tt.subn, tt.target)
		if err != nil {
			t.Fatalf("SubnetContains(%q, %q): %v", tt.subn, tt.target, err)
		}
		if ok {
			t.Errorf("SubnetContains(%q, %q) = true, want false", tt.subn, tt.target)
		}
	}

	if _, err := SubnetContains("10.0.0.0/8", "junk"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

// Containment must agree with the integer interval check for every address.
func TestSubnetContainsMatchesBounds(t *testing.T) {
	subn := "192.168.1.128/25"
	lower, upper, err := SubnetBounds(subn)
	if err != nil {
		t.Fatal(err)
	}
	for v := lower - 2; v <= upper+2; v++ {
		ip := IntToIP(v)
		ok, err := SubnetContains(subn, ip)
		if err != nil {
			t.Fatal(err)
		}
		want := v >= lower && v <= upper
		if ok != want {
			t.Errorf("SubnetContains(%q, %q) = %v, want %v", subn, ip, ok, want)
		}
	}
}

func TestSubnetEquiv(t *testing.T) {
	got, err := SubnetEquiv("0.0.0.0/24", 25)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0.0.0.0/25", "0.0.0.128/25"}
	assertStrings(t, got, want)

	got, err = SubnetEquiv("0.0.0.0/17", 20)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{
		"0.0.0.0/20", "0.0.16.0/20", "0.0.32.0/20", "0.0.48.0/20",
		"0.0.64.0/20", "0.0.80.0/20", "0.0.96.0/20", "0.0.112.0/20",
	}
	assertStrings(t, got, want)

	got, err = SubnetEquiv("0.0.0.0/17", 16)
	if err != nil {
		t.Fatal(err)
	}
	assertStrings(t, got, []string{"0.0.0.0/16"})

	if _, err := SubnetEquiv("0.0.0.999/16", 17); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubnetOf(t *testing.T) {
	got, err := SubnetOf("192.168.1.130", 24)
	if err != nil {
		t.Fatal(err)
	}
	if got != "192.168.1.0/24" {
		t.Errorf("SubnetOf = %q", got)
	}

	got, err = SubnetOf("10.4.5.6", 8)
	if err != nil {
		t.Fatal(err)
	}
	if got != "10.0.0.0/8" {
		t.Errorf("SubnetOf = %q", got)
	}
}

func TestRange(t *testing.T) {
	seq, err := Range("10.0.0.254", "10.0.1.1")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"10.0.0.254", "10.0.0.255", "10.0.1.0", "10.0.1.1"}

	var got []string
	for ip := range seq {
		got = append(got, ip)
	}
	assertStrings(t, got, want)

	// Restartable: iterating again yields the same sequence.
	got = nil
	for ip := range seq {
		got = append(got, ip)
	}
	assertStrings(t, got, want)

	// Descending bounds are swapped.
	swapped, err := Range("10.0.1.1", "10.0.0.254")
	if err != nil {
		t.Fatal(err)
	}
	got = nil
	for ip := range swapped {
		got = append(got, ip)
	}
	assertStrings(t, got, want)
}

func TestRangeUpperEdge(t *testing.T) {
	seq, err := Range("255.255.255.254", "255.255.255.255")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for ip := range seq {
		got = append(got, ip)
		if len(got) > 2 {
			t.Fatal("iterator wrapped past 255.255.255.255")
		}
	}
	assertStrings(t, got, []string{"255.255.255.254", "255.255.255.255"})
}

func TestSubnetAddrs(t *testing.T) {
	seq, err := SubnetAddrs("10.0.0.4/30")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for ip := range seq {
		got = append(got, ip)
	}
	assertStrings(t, got, []string{"10.0.0.4", "10.0.0.5", "10.0.0.6", "10.0.0.7"})
}

func TestSearchString(t *testing.T) {
	text := `# comment with 1.2.3.4
10.0.0.1
// another comment
10.0.0.2
10.0.0.1
not an ip
 10.0.0.3
`
	got, err := SearchString(text, SearchIPs)
	if err != nil {
		t.Fatal(err)
	}
	assertStrings(t, got, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"})

	subnets, err := SearchString("10.0.0.0/24\ngarbage\n10.0.0.0/24", SearchSubnets)
	if err != nil {
		t.Fatal(err)
	}
	assertStrings(t, subnets, []string{"10.0.0.0/24"})
}

func assertStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
