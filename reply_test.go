package ftpc

import (
	"bufio"
	"strings"
	"testing"
)

func TestParseReply(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "login successful",
			input:    "230 Login successful.",
			wantCode: 230,
			wantMsg:  "Login successful.",
		},
		{
			name:     "error reply",
			input:    "550 File not found",
			wantCode: 550,
			wantMsg:  "File not found",
		},
		{
			name:     "code with trailing space and no message",
			input:    "226 ",
			wantCode: 226,
			wantMsg:  "",
		},
		{
			name:     "bare code",
			input:    "200",
			wantCode: 200,
			wantMsg:  "",
		},
		{
			name:     "non-digit prefix is unparsable",
			input:    "xyz bad",
			wantCode: CodeNone,
			wantMsg:  "xyz bad",
		},
		{
			name:     "too short is unparsable",
			input:    "22",
			wantCode: CodeNone,
			wantMsg:  "22",
		},
		{
			name:     "empty line is unparsable",
			input:    "",
			wantCode: CodeNone,
			wantMsg:  "",
		},
		{
			name:     "message whitespace is trimmed",
			input:    "220   Welcome to FTP   ",
			wantCode: 220,
			wantMsg:  "Welcome to FTP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := ParseReply(tt.input)

			if reply.Code != tt.wantCode {
				t.Errorf("ParseReply(%q) code = %v, want %v", tt.input, reply.Code, tt.wantCode)
			}
			if reply.Message != tt.wantMsg {
				t.Errorf("ParseReply(%q) message = %q, want %q", tt.input, reply.Message, tt.wantMsg)
			}
		})
	}
}

func TestReply_CodeChecks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code  int
		is1xx bool
		is2xx bool
		is3xx bool
		is4xx bool
		is5xx bool
	}{
		{150, true, false, false, false, false},
		{200, false, true, false, false, false},
		{331, false, false, true, false, false},
		{421, false, false, false, true, false},
		{550, false, false, false, false, true},
		{CodeNone, false, false, false, false, false},
	}

	for _, tt := range tests {
		r := Reply{Code: tt.code}

		if r.Is1xx() != tt.is1xx {
			t.Errorf("Reply{%d}.Is1xx() = %v, want %v", tt.code, r.Is1xx(), tt.is1xx)
		}
		if r.Is2xx() != tt.is2xx {
			t.Errorf("Reply{%d}.Is2xx() = %v, want %v", tt.code, r.Is2xx(), tt.is2xx)
		}
		if r.Is3xx() != tt.is3xx {
			t.Errorf("Reply{%d}.Is3xx() = %v, want %v", tt.code, r.Is3xx(), tt.is3xx)
		}
		if r.Is4xx() != tt.is4xx {
			t.Errorf("Reply{%d}.Is4xx() = %v, want %v", tt.code, r.Is4xx(), tt.is4xx)
		}
		if r.Is5xx() != tt.is5xx {
			t.Errorf("Reply{%d}.Is5xx() = %v, want %v", tt.code, r.Is5xx(), tt.is5xx)
		}
	}
}

func TestReadReply(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		wantCode int
		wantMsg  string
		wantErr  bool
	}{
		{
			name:     "single line",
			input:    "220 Welcome\r\n",
			wantCode: 220,
			wantMsg:  "Welcome",
		},
		{
			name: "multi-line block reports the terminator",
			input: "220-Welcome to FTP\r\n" +
				"220-This is line 2\r\n" +
				"220 Ready\r\n",
			wantCode: 220,
			wantMsg:  "Ready",
		},
		{
			name: "multi-line with unprefixed continuation lines",
			input: "211-Extensions supported:\r\n" +
				" MLST size*;create;modify*\r\n" +
				" SIZE\r\n" +
				"211 END\r\n",
			wantCode: 211,
			wantMsg:  "END",
		},
		{
			name:     "unparsable line degrades, does not error",
			input:    "garbage line\r\n",
			wantCode: CodeNone,
			wantMsg:  "garbage line",
		},
		{
			name:    "empty stream",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := readReply(bufio.NewReader(strings.NewReader(tt.input)))

			if (err != nil) != tt.wantErr {
				t.Fatalf("readReply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if reply.Code != tt.wantCode {
				t.Errorf("readReply() code = %v, want %v", reply.Code, tt.wantCode)
			}
			if reply.Message != tt.wantMsg {
				t.Errorf("readReply() message = %q, want %q", reply.Message, tt.wantMsg)
			}
		})
	}
}

func FuzzParseReply(f *testing.F) {
	f.Add("230 Login successful.")
	f.Add("226 ")
	f.Add("xyz bad")
	f.Add("")
	f.Add("550-Permission denied")

	f.Fuzz(func(t *testing.T, line string) {
		// Must never panic, and malformed input must use the sentinel
		reply := ParseReply(line)
		if reply.Code == CodeNone && reply.Message != line {
			t.Errorf("unparsable reply must carry the raw line: got %q, want %q", reply.Message, line)
		}
	})
}
