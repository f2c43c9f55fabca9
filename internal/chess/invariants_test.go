package chess

import (
	"encoding/json"
	"testing"
)

// TestMoveResultJSONSerializationAlwaysIncludesRequiredFields ensures that
// MoveResult structs always serialize to JSON with the expected field names
func TestMoveResultJSONSerializationAlwaysIncludesRequiredFields(t *testing.T) {
	engine := NewEngine()
	moveResult, err := engine.MakeMove("e2e4")
	if err != nil {
		t.Fatalf("Failed to make move: %v", err)
	}

	jsonData, err := json.Marshal(moveResult)
	if err != nil {
		t.Fatalf("Failed to marshal MoveResult: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	// Field names stay lowercase even when values are zero
	expectedFields := []string{"move", "from", "to", "san", "fen", "check", "checkmate", "draw", "gameOver", "status"}
	for _, field := range expectedFields {
		if _, exists := parsed[field]; !exists {
			t.Errorf("Missing field in JSON: %s", field)
		}
	}

	if parsed["from"] != "e2" {
		t.Errorf("Expected from=e2, got %v", parsed["from"])
	}
	if parsed["san"] != "e4" {
		t.Errorf("Expected san=e4, got %v", parsed["san"])
	}
	if parsed["fen"] != moveResult.FEN {
		t.Errorf("Expected fen=%s, got %v", moveResult.FEN, parsed["fen"])
	}
	if parsed["status"] != string(StatusActive) {
		t.Errorf("Expected status=%s, got %v", StatusActive, parsed["status"])
	}
}

// TestSummaryJSONSerializationAlwaysIncludesRequiredFields ensures that
// Summary structs always serialize to JSON with the expected field names
func TestSummaryJSONSerializationAlwaysIncludesRequiredFields(t *testing.T) {
	jsonData, err := json.Marshal(NewEngine().Summary())
	if err != nil {
		t.Fatalf("Failed to marshal Summary: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	expectedFields := []string{"board", "turn", "status", "fen", "moves", "ply", "material"}
	for _, field := range expectedFields {
		if _, exists := parsed[field]; !exists {
			t.Errorf("Missing field in JSON: %s", field)
		}
	}

	// An empty move list must encode as [], not null
	if moves, ok := parsed["moves"].([]interface{}); !ok || len(moves) != 0 {
		t.Errorf("Expected empty moves array, got %v", parsed["moves"])
	}
	if parsed["turn"] != "WHITE" {
		t.Errorf("Expected turn=WHITE, got %v", parsed["turn"])
	}
}

// TestRejectedMovesNeverChangeTheGame ensures that every rejected move,
// malformed or illegal, leaves the position untouched
func TestRejectedMovesNeverChangeTheGame(t *testing.T) {
	engine := NewEngine()

	testCases := []struct {
		name     string
		move     string
		expected bool // whether move should be valid
	}{
		{name: "Valid pawn move should be accepted", move: "e2e4", expected: true},
		{name: "Invalid pawn move should be rejected", move: "e7e4", expected: false},
		{name: "Valid reply should be accepted", move: "g8f6", expected: true},
		{name: "Invalid knight move should be rejected", move: "g1e3", expected: false},
		{name: "Move to occupied square by same color should be rejected", move: "d1d2", expected: false},
		{name: "Malformed move should be rejected", move: "d1", expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := engine.FEN()
			_, err := engine.MakeMove(tc.move)

			if tc.expected && err != nil {
				t.Errorf("Expected valid move, got error: %v", err)
			}
			if !tc.expected {
				if err == nil {
					t.Errorf("Expected invalid move to return error, got nil")
				}
				if after := engine.FEN(); after != before {
					t.Errorf("Rejected move changed FEN from %s to %s", before, after)
				}
			}
		})
	}
}
