package vm

type Opcode uint32

const (
	NOP Opcode = iota
	// PRE-STACK ... TOS+1 TOS | OP | POST-STACK
	CONSTANT // | push Constants[Arg] | A
	TRUE     // | | true
	FALSE    // | | false
	NULL     // | | null
	ECHO     // A | write A |
	POP      // A | |

	ADD          // A B | C = A + B | C
	SUBTRACT     // A B | C = A - B | C
	MULTIPLY     // A B | C = A * B | C
	DIVIDE       // A B | C = A / B (always float) | C
	LESS_THAN    // A B | C = A < B | C
	GREATER_THAN // A B | C = A > B | C
	CONCAT       // A B | C = A . B | C

	JUMP          // | jump to Arg |
	JUMP_IF_FALSE // A | jump to Arg if A is falsy |
	JUMP_IF_TRUE  // A | jump to Arg if A is truthy |

	ASSIGN       // A | locals[Name] = A | A
	GET          // | locals[Name] | A
	GET_CONSTANT // | registry constant Name | A

	INIT_CALL        // | push staging frame for Name |
	SEND_ARG         // A | move A to the staging frame |
	DO_CALL          // | staging frame becomes current |
	DO_INTERNAL_CALL // | invoke staged internal function | R

	RETURN       // | pop frame, caller gets null |
	RETURN_VALUE // A | pop frame, caller gets A |

	NEW_ARRAY // | | []
	APPEND    // Arr A | Arr[len] = A | Arr
	INDEX     // Arr K | | Arr[K]

	OpcodeMax
)

var opcodeNames = [...]string{
	NOP:              "NOP",
	CONSTANT:         "CONSTANT",
	TRUE:             "TRUE",
	FALSE:            "FALSE",
	NULL:             "NULL",
	ECHO:             "ECHO",
	POP:              "POP",
	ADD:              "ADD",
	SUBTRACT:         "SUBTRACT",
	MULTIPLY:         "MULTIPLY",
	DIVIDE:           "DIVIDE",
	LESS_THAN:        "LESS_THAN",
	GREATER_THAN:     "GREATER_THAN",
	CONCAT:           "CONCAT",
	JUMP:             "JUMP",
	JUMP_IF_FALSE:    "JUMP_IF_FALSE",
	JUMP_IF_TRUE:     "JUMP_IF_TRUE",
	ASSIGN:           "ASSIGN",
	GET:              "GET",
	GET_CONSTANT:     "GET_CONSTANT",
	INIT_CALL:        "INIT_CALL",
	SEND_ARG:         "SEND_ARG",
	DO_CALL:          "DO_CALL",
	DO_INTERNAL_CALL: "DO_INTERNAL_CALL",
	RETURN:           "RETURN",
	RETURN_VALUE:     "RETURN_VALUE",
	NEW_ARRAY:        "NEW_ARRAY",
	APPEND:           "APPEND",
	INDEX:            "INDEX",
}

func (o Opcode) String() string {
	if o < OpcodeMax {
		return opcodeNames[o]
	}
	panic("Unnamed opcode")
}

// IsJump reports whether Arg is a jump target.
func (o Opcode) IsJump() bool {
	return o == JUMP || o == JUMP_IF_FALSE || o == JUMP_IF_TRUE
}

// HasName reports whether the opcode carries a Name operand.
func (o Opcode) HasName() bool {
	switch o {
	case ASSIGN, GET, GET_CONSTANT, INIT_CALL:
		return true
	}
	return false
}
