package gen

import (
	"strings"
	"testing"

	"blockgen/internal/gen/block"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_UnknownBackend(t *testing.T) {
	_, err := NewGenerator("cobol", DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestDefaultRegistry_Names(t *testing.T) {
	assert.Equal(t, []string{BackendGo, BackendNatural}, DefaultRegistry.Names())
}

func TestGenerate_GoProgram(t *testing.T) {
	result := generate(t, BackendGo, DefaultOptions(), printText("hi"))

	assert.Equal(t, goHeader+"\nfmt.Println(\"hi\")\n", result.Code)
	assert.Equal(t, BackendGo, result.Backend)
	assert.NotEmpty(t, result.PassID)
	assert.Empty(t, result.Diagnostics)
}

func TestGenerate_NaturalProgram(t *testing.T) {
	program := chain(printText("hi"), invoke(text("A"), text("B"), num("50")))

	result := generate(t, BackendNatural, DefaultOptions(), program)

	assert.Equal(t, "Output the data of 'hi'\nTransaction: A gives B 50 dollar(s).\n", result.Code)
}

func TestGenerate_IsDeterministic(t *testing.T) {
	build := func() []*block.Node {
		return []*block.Node{
			chain(invoke(text("A"), text("B"), num("50")), query("A", true)),
			forLoop(get("n"), num("10"), nil),
			&block.Node{ID: "r", Kind: block.KindControlsRepeat, Fields: map[string]any{FieldTimes: 3}},
		}
	}

	for _, backend := range []string{BackendGo, BackendNatural} {
		t.Run(backend, func(t *testing.T) {
			g, err := NewGenerator(backend, DefaultOptions())
			require.NoError(t, err)

			first, err := g.Generate(graph(build()...))
			require.NoError(t, err)
			second, err := g.Generate(graph(build()...))
			require.NoError(t, err)

			assert.Equal(t, first.Code, second.Code)
			assert.NotEqual(t, first.PassID, second.PassID)
		})
	}
}

func TestGenerate_SameOperatorChainHasNoParens(t *testing.T) {
	sum := arith(OpAdd, get("a"), arith(OpAdd, get("b"), get("c")))
	diff := arith(OpMinus, get("a"), arith(OpMinus, get("b"), get("c")))

	natural := generate(t, BackendNatural, DefaultOptions(), sum)
	assert.Equal(t, "a add b add c\n", natural.Code)

	code := generate(t, BackendGo, DefaultOptions(), sum, diff).Code
	assert.Contains(t, code, "\na + b + c\n")
	assert.Contains(t, code, "\na - (b - c)\n")
}

func TestGenerate_LooserChildIsWrapped(t *testing.T) {
	product := arith(OpMultiply, arith(OpAdd, get("a"), get("b")), get("c"))

	code := generate(t, BackendGo, DefaultOptions(), product).Code

	assert.Contains(t, code, "\n(a + b) * c\n")
}

func TestGenerate_IfChain(t *testing.T) {
	newIf := func() *block.Node {
		return &block.Node{
			ID:   "if",
			Kind: block.KindControlsIf,
			Values: map[string]*block.Node{
				"IF0": boolean(true),
				"IF1": boolean(false),
				"IF2": compare(OpEq, get("x"), num("1")),
			},
			Statements: map[string]*block.Node{
				"DO0": printText("a"),
				"DO1": printText("b"),
				"DO2": printText("c"),
			},
		}
	}

	t.Run("without else", func(t *testing.T) {
		code := generate(t, BackendGo, DefaultOptions(), newIf()).Code

		assert.Contains(t, code, "if true {\n"+
			"\tfmt.Println(\"a\")\n"+
			"} else if false {\n"+
			"\tfmt.Println(\"b\")\n"+
			"} else if x == 1 {\n"+
			"\tfmt.Println(\"c\")\n"+
			"}\n")
		assert.Equal(t, 2, strings.Count(code, "} else if "))
		assert.Equal(t, 0, strings.Count(code, "} else {"))
	})

	t.Run("with else", func(t *testing.T) {
		n := newIf()
		n.Statements[SlotElse] = printText("d")

		code := generate(t, BackendGo, DefaultOptions(), n).Code

		assert.Equal(t, 2, strings.Count(code, "} else if "))
		assert.Equal(t, 1, strings.Count(code, "} else {\n\tfmt.Println(\"d\")\n}\n"))
	})

	t.Run("empty else still adds a branch", func(t *testing.T) {
		n := newIf()
		n.Statements[SlotElse] = nil

		code := generate(t, BackendGo, DefaultOptions(), n).Code

		assert.Equal(t, 1, strings.Count(code, "} else {\n}\n"))
	})

	t.Run("natural", func(t *testing.T) {
		n := newIf()
		n.Statements[SlotElse] = printText("d")

		code := generate(t, BackendNatural, DefaultOptions(), n).Code

		assert.Equal(t, "if true:\n"+
			"  Output the data of 'a'\n"+
			"else if false:\n"+
			"  Output the data of 'b'\n"+
			"else if x is equal to 1:\n"+
			"  Output the data of 'c'\n"+
			"else:\n"+
			"  Output the data of 'd'\n", code)
	})
}

func TestGenerate_Invoke(t *testing.T) {
	result := generate(t, BackendGo, DefaultOptions(), invoke(text("A"), text("B"), num("50")))

	want := "func (t *SimpleChaincode) invoke(stub shim.ChaincodeStubInterface, args []string) pb.Response {\n" +
		"\tfmt.Println(\"Running invoke\")\n" +
		"\tvar Aval, Bval int\n" +
		"\tUSER_A := \"A\"\n" +
		"\tUSER_B := \"B\"\n" +
		"\tUSER_A_val_bytes, err := stub.GetState(USER_A)\n" +
		"\tif err != nil {\n" +
		"\t\treturn shim.Error(\"Failed to get state\")\n" +
		"\t}\n" +
		"\tif USER_A_val_bytes == nil {\n" +
		"\t\treturn shim.Error(\"Entity not found\")\n" +
		"\t}\n" +
		"\tAval, _ = strconv.Atoi(string(USER_A_val_bytes))\n" +
		"\tUSER_B_val_bytes, err := stub.GetState(USER_B)\n" +
		"\tif err != nil {\n" +
		"\t\treturn shim.Error(\"Failed to get state\")\n" +
		"\t}\n" +
		"\tif USER_B_val_bytes == nil {\n" +
		"\t\treturn shim.Error(\"Entity not found\")\n" +
		"\t}\n" +
		"\tBval, _ = strconv.Atoi(string(USER_B_val_bytes))\n" +
		"\tAval = Aval - 50\n" +
		"\tBval = Bval + 50\n" +
		"\tfmt.Printf(\"Aval = %d, Bval = %d\\n\", Aval, Bval)\n" +
		"\terr = stub.PutState(USER_A, []byte(strconv.Itoa(Aval)))\n" +
		"\tif err != nil {\n" +
		"\t\treturn shim.Error(err.Error())\n" +
		"\t}\n" +
		"\terr = stub.PutState(USER_B, []byte(strconv.Itoa(Bval)))\n" +
		"\tif err != nil {\n" +
		"\t\treturn shim.Error(err.Error())\n" +
		"\t}\n" +
		"\treturn shim.Success(nil)\n" +
		"}\n"

	assert.Equal(t, goHeader+"\n"+want, result.Code)
	assert.Empty(t, result.Diagnostics)
}

func TestGenerate_InvokeAmountForms(t *testing.T) {
	tests := []struct {
		name    string
		amount  *block.Node
		want    []string
		without []string
	}{
		{
			name:   "numeric text is substituted",
			amount: text("75"),
			want:   []string{"\tAval = Aval - 75\n", "\tBval = Bval + 75\n"},
		},
		{
			name:   "other text is parsed",
			amount: text("lots"),
			want: []string{
				"\tMONEY, err := strconv.Atoi(\"lots\")\n",
				"\tAval = Aval - MONEY\n",
			},
		},
		{
			name:   "expression is evaluated once",
			amount: arith(OpMultiply, get("x"), num("2")),
			want:   []string{"\tMONEY := x * 2\n", "\tBval = Bval + MONEY\n"},
		},
		{
			name:    "variable is used directly",
			amount:  get("fee"),
			want:    []string{"\tAval = Aval - fee\n"},
			without: []string{"MONEY"},
		},
		{
			name:   "missing amount moves nothing",
			amount: nil,
			want:   []string{"\tAval = Aval - 0\n"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := generate(t, BackendGo, DefaultOptions(), invoke(text("A"), text("B"), tt.amount)).Code
			for _, w := range tt.want {
				assert.Contains(t, code, w)
			}
			for _, w := range tt.without {
				assert.NotContains(t, code, w)
			}
		})
	}
}

func TestGenerate_QuerySecurityToggle(t *testing.T) {
	lookupError := "\tif err != nil {\n" +
		"\t\tjsonResp := \"{\\\"Error\\\":\\\"Failed to get state for \" + user_name + \"\\\"}\"\n" +
		"\t\treturn shim.Error(jsonResp)\n" +
		"\t}\n"
	absence := "\tif user_name_val == nil {\n" +
		"\t\tjsonResp := \"{\\\"Error\\\":\\\"Nil amount for \" + user_name + \"\\\"}\"\n" +
		"\t\treturn shim.Error(jsonResp)\n" +
		"\t}\n"

	t.Run("enabled", func(t *testing.T) {
		code := generate(t, BackendGo, DefaultOptions(), query("A", true)).Code
		assert.Contains(t, code, lookupError+absence)
		assert.Contains(t, code, "\treturn shim.Success(user_name_val)\n")
	})

	t.Run("disabled", func(t *testing.T) {
		code := generate(t, BackendGo, DefaultOptions(), query("A", false)).Code
		assert.Contains(t, code, lookupError)
		assert.NotContains(t, code, "user_name_val == nil")
	})

	t.Run("natural", func(t *testing.T) {
		on := generate(t, BackendNatural, DefaultOptions(), query("A", true)).Code
		off := generate(t, BackendNatural, DefaultOptions(), query("A", false)).Code
		assert.Equal(t, "Query: query A's account.\nThe query fails when A's account is empty.\n", on)
		assert.Equal(t, "Query: query A's account.\n", off)
	})
}

func TestGenerate_DeleteIgnoresToggle(t *testing.T) {
	newDelete := func(secure bool) *block.Node {
		return &block.Node{
			ID:     "del",
			Kind:   block.KindLedgerDelete,
			Fields: map[string]any{FieldDeleteSecurity: secure},
			Values: map[string]*block.Node{SlotDeleteAccount: text("A")},
		}
	}

	off := generate(t, BackendGo, DefaultOptions(), newDelete(false))
	on := generate(t, BackendGo, DefaultOptions(), newDelete(true))

	assert.Equal(t, off.Code, on.Code)
	assert.Contains(t, on.Code, "\terr := stub.DelState(user_name)\n"+
		"\tif err != nil {\n"+
		"\t\treturn shim.Error(\"Failed to delete state\")\n"+
		"\t}\n")
	require.Len(t, on.Diagnostics, 1)
	assert.Equal(t, CodeSecurityToggleIgnored, on.Diagnostics[0].Code)
}

func TestGenerate_SetValue(t *testing.T) {
	newSet := func(secure bool) *block.Node {
		return &block.Node{
			ID:     "set",
			Kind:   block.KindSetValue,
			Fields: map[string]any{FieldSetName: "x", FieldSetSecurity: secure},
			Values: map[string]*block.Node{SlotSetValue: num("5")},
		}
	}

	t.Run("toggle disabled", func(t *testing.T) {
		code := generate(t, BackendGo, DefaultOptions(), newSet(false)).Code
		assert.Contains(t, code, "var x string\n"+
			"var xval int\n"+
			"var err_x error\n"+
			"x = \"x\"\n"+
			"xval, err_x = strconv.Atoi(\"5\")\n"+
			"err_x = stub.PutState(x, []byte(strconv.Itoa(xval)))\n")
		assert.NotContains(t, code, "Expecting integer value")
	})

	t.Run("toggle enabled", func(t *testing.T) {
		code := generate(t, BackendGo, DefaultOptions(), newSet(true)).Code
		assert.Contains(t, code, "if err_x != nil {\n\treturn shim.Error(\"Expecting integer value for asset holding\")\n}\n")
	})

	t.Run("declared once per pass", func(t *testing.T) {
		code := generate(t, BackendGo, DefaultOptions(), chain(newSet(false), newSet(false))).Code
		assert.Equal(t, 1, strings.Count(code, "var x string\n"))
		assert.Equal(t, 2, strings.Count(code, "x = \"x\"\n"))
		assert.Equal(t, 2, strings.Count(code, "xval, err_x = strconv.Atoi(\"5\")\n"))
	})
}

func TestGenerate_SetValueTemporariesAvoidUserNames(t *testing.T) {
	newSet := func() *block.Node {
		return &block.Node{
			ID:     "set",
			Kind:   block.KindSetValue,
			Fields: map[string]any{FieldSetName: "x"},
			Values: map[string]*block.Node{SlotSetValue: num("5")},
		}
	}
	userVar := func(name string) *block.Node {
		return &block.Node{
			Kind:   block.KindVariablesSet,
			Fields: map[string]any{FieldVar: name},
			Values: map[string]*block.Node{SlotValue: num("7")},
		}
	}

	t.Run("user variable after set_value", func(t *testing.T) {
		root := &block.Node{
			ID:         "root",
			Kind:       block.KindLedgerInit,
			Statements: map[string]*block.Node{SlotInit: chain(newSet(), userVar("xval"), userVar("err_x"))},
		}
		code := generate(t, BackendGo, DefaultOptions(), root).Code

		assert.Contains(t, code, "	xval, err_x = strconv.Atoi(\"5\")\n")
		assert.Contains(t, code, "	xval2 := 7\n")
		assert.Contains(t, code, "	err_x2 := 7\n")
		assert.NotContains(t, code, "	xval := 7\n")
	})

	t.Run("user variable before set_value", func(t *testing.T) {
		code := generate(t, BackendGo, DefaultOptions(), chain(userVar("xval"), newSet(), newSet())).Code

		assert.Contains(t, code, "\nxval := 7\n")
		assert.Contains(t, code, "\nvar xval2 int\n")
		assert.Equal(t, 2, strings.Count(code, "\nxval2, err_x = strconv.Atoi(\"5\")\n"))
		assert.Equal(t, 1, strings.Count(code, "var xval2 int\n"))
	})
}

func TestGenerate_ForLoop(t *testing.T) {
	tests := []struct {
		name string
		loop *block.Node
		want string
	}{
		{
			name: "ascending literal bounds",
			loop: forLoop(num("0"), num("10"), num("1")),
			want: "for i := 0; i <= 10; i++ {\n}\n",
		},
		{
			name: "descending literal bounds",
			loop: forLoop(num("10"), num("0"), num("1")),
			want: "for i := 10; i >= 0; i-- {\n}\n",
		},
		{
			name: "literal step",
			loop: forLoop(num("0"), num("10"), num("2")),
			want: "for i := 0; i <= 10; i += 2 {\n}\n",
		},
		{
			name: "negative step takes its magnitude",
			loop: forLoop(num("10"), num("0"), num("-3")),
			want: "for i := 10; i >= 0; i -= 3 {\n}\n",
		},
		{
			name: "variable bound",
			loop: forLoop(get("n"), num("10"), nil),
			want: "i_inc := 1\n" +
				"if n > 10 {\n" +
				"\ti_inc = -i_inc\n" +
				"}\n" +
				"for i := n; i_inc >= 0 && i <= 10 || i_inc < 0 && i >= 10; i += i_inc {\n" +
				"}\n",
		},
		{
			name: "expression bound and step",
			loop: forLoop(num("0"), arith(OpAdd, get("n"), num("1")), get("s")),
			want: "i_end := n + 1\n" +
				"i_inc := s\n" +
				"if i_inc < 0 {\n" +
				"\ti_inc = -i_inc\n" +
				"}\n" +
				"if 0 > i_end {\n" +
				"\ti_inc = -i_inc\n" +
				"}\n" +
				"for i := 0; i_inc >= 0 && i <= i_end || i_inc < 0 && i >= i_end; i += i_inc {\n" +
				"}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := generate(t, BackendGo, DefaultOptions(), tt.loop).Code
			assert.Equal(t, goHeader+"\n"+tt.want, code)
		})
	}
}

func TestGenerate_Repeat(t *testing.T) {
	t.Run("field count", func(t *testing.T) {
		n := &block.Node{
			ID:         "r",
			Kind:       block.KindControlsRepeat,
			Fields:     map[string]any{FieldTimes: 3},
			Statements: map[string]*block.Node{SlotDo: printText("x")},
		}
		code := generate(t, BackendGo, DefaultOptions(), n).Code
		assert.Contains(t, code, "\nfor count := 0; count < 3; count++ {\n\tfmt.Println(\"x\")\n}\n")
	})

	t.Run("expression count is cached", func(t *testing.T) {
		n := &block.Node{
			ID:         "r",
			Kind:       block.KindControlsRepeatExt,
			Values:     map[string]*block.Node{SlotTimes: arith(OpAdd, get("n"), num("1"))},
			Statements: map[string]*block.Node{SlotDo: printText("x")},
		}
		code := generate(t, BackendGo, DefaultOptions(), n).Code
		assert.Contains(t, code, "\nrepeat_end := n + 1\nfor count := 0; count < repeat_end; count++ {\n")
	})

	t.Run("nested loops get distinct counters", func(t *testing.T) {
		inner := &block.Node{ID: "in", Kind: block.KindControlsRepeat, Fields: map[string]any{FieldTimes: 2}}
		outer := &block.Node{
			ID:         "out",
			Kind:       block.KindControlsRepeat,
			Fields:     map[string]any{FieldTimes: 2},
			Statements: map[string]*block.Node{SlotDo: inner},
		}
		code := generate(t, BackendGo, DefaultOptions(), outer).Code
		assert.Contains(t, code, "\nfor count := 0; count < 2; count++ {\n")
		assert.Contains(t, code, "\n\tfor count2 := 0; count2 < 2; count2++ {\n")
	})
}

func TestGenerate_WhileUntil(t *testing.T) {
	newLoop := func(mode string) *block.Node {
		return &block.Node{
			ID:     "w",
			Kind:   block.KindControlsWhileUntil,
			Fields: map[string]any{FieldMode: mode},
			Values: map[string]*block.Node{SlotCond: compare(OpEq, get("x"), num("1"))},
		}
	}

	assert.Contains(t, generate(t, BackendGo, DefaultOptions(), newLoop("WHILE")).Code, "\nfor x == 1 {\n}\n")
	assert.Contains(t, generate(t, BackendGo, DefaultOptions(), newLoop(ModeUntil)).Code, "\nfor !(x == 1) {\n}\n")
	assert.Equal(t, "recycle until x is equal to 1:\n", generate(t, BackendNatural, DefaultOptions(), newLoop(ModeUntil)).Code)
}

func TestGenerate_PowerAddsMathImport(t *testing.T) {
	n := &block.Node{
		Kind:   block.KindTextPrint,
		Values: map[string]*block.Node{SlotText: arith(OpPower, num("2"), num("3"))},
	}

	code := generate(t, BackendGo, DefaultOptions(), n).Code

	assert.Contains(t, code, "\t\"math\"\n")
	assert.Contains(t, code, "fmt.Println(math.Pow(2, 3))\n")
	assert.Equal(t, "Output the data of pow(2, 3)\n", generate(t, BackendNatural, DefaultOptions(), n).Code)
}

func TestGenerate_VariablesSetDeclaresOnce(t *testing.T) {
	set := func(v string) *block.Node {
		return &block.Node{
			Kind:   block.KindVariablesSet,
			Fields: map[string]any{FieldVar: "total"},
			Values: map[string]*block.Node{SlotValue: num(v)},
		}
	}

	code := generate(t, BackendGo, DefaultOptions(), chain(set("1"), set("2"))).Code

	assert.Contains(t, code, "\ntotal := 1\ntotal = 2\n")
}

func TestGenerate_UnknownOperatorIsReported(t *testing.T) {
	result := generate(t, BackendGo, DefaultOptions(), arith("MODULO", get("a"), get("b")))

	assert.Contains(t, result.Code, "\na + b\n")
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, CodeUnknownOperator, result.Diagnostics[0].Code)
	assert.Equal(t, SeverityWarning, result.Diagnostics[0].Severity)
}

func TestGenerate_ReservedWordsAreRenamed(t *testing.T) {
	n := &block.Node{
		Kind:   block.KindVariablesSet,
		Fields: map[string]any{FieldVar: "func"},
		Values: map[string]*block.Node{SlotValue: get("stub")},
	}

	code := generate(t, BackendGo, DefaultOptions(), n).Code

	assert.Contains(t, code, "\nfunc2 := stub2\n")
}

func TestGenerate_Comments(t *testing.T) {
	t.Run("statement comment", func(t *testing.T) {
		n := printText("hi")
		n.Comment = "say hi"
		code := generate(t, BackendNatural, DefaultOptions(), n).Code
		assert.Equal(t, "// say hi\nOutput the data of 'hi'\n", code)
	})

	t.Run("comment of a value child", func(t *testing.T) {
		n := printText("hi")
		n.Values[SlotText].Comment = "greeting"
		code := generate(t, BackendNatural, DefaultOptions(), n).Code
		assert.Equal(t, "// greeting\nOutput the data of 'hi'\n", code)
	})

	t.Run("procedure comment", func(t *testing.T) {
		n := query("A", false)
		n.Comment = "read a balance"
		code := generate(t, BackendGo, DefaultOptions(), n).Code
		assert.Contains(t, code, "\n/**\n * read a balance\n */\nfunc (t *SimpleChaincode) query(")
	})

	t.Run("long comment is wrapped", func(t *testing.T) {
		n := printText("hi")
		n.Comment = "one two three four"
		opts := DefaultOptions()
		opts.CommentWrap = 14
		code := generate(t, BackendNatural, opts, n).Code
		assert.Equal(t, "// one two\n// three four\nOutput the data of 'hi'\n", code)
	})
}

func TestGenerate_LoopTrap(t *testing.T) {
	opts := DefaultOptions()
	opts.LoopTrap = true
	loop := func() *block.Node {
		return &block.Node{
			ID:         "loop1",
			Kind:       block.KindControlsWhileUntil,
			Values:     map[string]*block.Node{SlotCond: boolean(true)},
			Statements: map[string]*block.Node{SlotDo: printText("x")},
		}
	}

	t.Run("go", func(t *testing.T) {
		code := generate(t, BackendGo, opts, loop(), loop()).Code

		helper := "var loopTrapCounts = map[string]int{}\n" +
			"\n" +
			"func loopTrap(id string) {\n" +
			"\tloopTrapCounts[id]++\n" +
			"\tif loopTrapCounts[id] > 1000000 {\n" +
			"\t\tpanic(\"loop trap: block \" + id + \" ran too many iterations\")\n" +
			"\t}\n" +
			"}\n"
		assert.Equal(t, 1, strings.Count(code, helper))
		assert.Contains(t, code, "for true {\n\tloopTrap(\"loop1\")\n\tfmt.Println(\"x\")\n}\n")
	})

	t.Run("natural", func(t *testing.T) {
		code := generate(t, BackendNatural, opts, loop()).Code
		assert.Equal(t, "recycle while true:\n"+
			"  stop if block loop1 repeats more than 1000000 times\n"+
			"  Output the data of 'x'\n", code)
	})

	t.Run("disabled", func(t *testing.T) {
		code := generate(t, BackendGo, DefaultOptions(), loop()).Code
		assert.NotContains(t, code, "loopTrap")
	})

	t.Run("ledger sequences", func(t *testing.T) {
		root := func() *block.Node {
			return &block.Node{
				ID:   "root",
				Kind: block.KindLedgerInitBody,
				Statements: map[string]*block.Node{
					SlotInit: printText("i"),
					SlotBody: query("A", false),
				},
			}
		}

		code := generate(t, BackendGo, opts, root()).Code
		assert.Contains(t, code, "	fmt.Println(\"ex02 Init\")\n\tloopTrap(\"root\")\n\tfmt.Println(\"i\")\n")
		assert.Equal(t, 1, strings.Count(code, "loopTrap(\"root\")"), "method declarations in the body take no trap")

		natural := generate(t, BackendNatural, opts, root()).Code
		assert.Equal(t, 2, strings.Count(natural, "  stop if block root repeats more than 1000000 times\n"))
	})
}

func TestGenerate_ChaincodeSkeleton(t *testing.T) {
	set := &block.Node{
		ID:     "set",
		Kind:   block.KindSetValue,
		Fields: map[string]any{FieldSetName: "a"},
		Values: map[string]*block.Node{SlotSetValue: num("100")},
	}
	del := &block.Node{
		ID:     "del",
		Kind:   block.KindLedgerDelete,
		Values: map[string]*block.Node{SlotDeleteAccount: text("A")},
	}
	root := &block.Node{
		ID:   "root",
		Kind: block.KindLedgerInitBody,
		Statements: map[string]*block.Node{
			SlotInit: set,
			SlotBody: chain(invoke(text("A"), text("B"), num("1")), query("A", false), del),
		},
	}

	code := generate(t, BackendGo, DefaultOptions(), root).Code

	assert.Contains(t, code, "func (t *SimpleChaincode) Init(stub shim.ChaincodeStubInterface) pb.Response {\n"+
		"\tfmt.Println(\"ex02 Init\")\n"+
		"\tvar a string\n")
	assert.Contains(t, code, "\treturn shim.Success(nil)\n}\n\nfunc (t *SimpleChaincode) Invoke(")
	assert.Contains(t, code, "\tfunction, args := stub.GetFunctionAndParameters()\n"+
		"\tif function == \"invoke\" {\n"+
		"\t\treturn t.invoke(stub, args)\n"+
		"\t} else if function == \"init\" {\n"+
		"\t\treturn t.Init(stub)\n"+
		"\t} else if function == \"delete\" {\n"+
		"\t\treturn t.delete(stub, args)\n"+
		"\t} else if function == \"query\" {\n"+
		"\t\treturn t.query(stub, args)\n"+
		"\t}\n"+
		"\treturn shim.Error(\"Invalid invoke function name. Expecting \\\"invoke\\\" \\\"delete\\\" \\\"query\\\"\")\n"+
		"}\n")
	assert.Contains(t, code, "}\n\nfunc (t *SimpleChaincode) query(stub shim.ChaincodeStubInterface, args []string) pb.Response {\n")
	assert.Contains(t, code, "}\n\nfunc (t *SimpleChaincode) delete(stub shim.ChaincodeStubInterface, args []string) pb.Response {\n")
	assert.True(t, strings.HasSuffix(code, "\n\nfunc main() {\n"+
		"\terr := shim.Start(new(SimpleChaincode))\n"+
		"\tif err != nil {\n"+
		"\t\tfmt.Printf(\"Error starting Simple chaincode: %s\", err)\n"+
		"\t}\n"+
		"}\n"))

	natural := generate(t, BackendNatural, DefaultOptions(), root).Code
	assert.Equal(t, "chaincode init:\n"+
		"  There is 100 dollar in a's account.\n"+
		"chaincode body:\n"+
		"  Transaction: A gives B 1 dollar(s).\n"+
		"\n"+
		"  Query: query A's account.\n"+
		"\n"+
		"  Delete: delete the user A\n", natural)
}

func TestGenerate_SecondOperationGetsNumberedName(t *testing.T) {
	code := generate(t, BackendGo, DefaultOptions(),
		chain(invoke(text("A"), text("B"), num("1")), invoke(text("B"), text("A"), num("1"))),
	).Code

	assert.Contains(t, code, "func (t *SimpleChaincode) invoke(")
	assert.Contains(t, code, "func (t *SimpleChaincode) invoke2(")
}

func TestGenerate_Format(t *testing.T) {
	opts := DefaultOptions()
	opts.Format = true

	t.Run("valid program", func(t *testing.T) {
		result := generate(t, BackendGo, opts, invoke(text("A"), text("B"), num("50")))
		assert.Empty(t, result.Diagnostics)
		assert.Contains(t, result.Code, "\tAval = Aval - 50\n")
	})

	t.Run("unparsable program keeps the raw text", func(t *testing.T) {
		result := generate(t, BackendGo, opts, compare(OpEq, get("x"), num("1")))
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, CodeFormatFailed, result.Diagnostics[0].Code)
		assert.Contains(t, result.Code, "\nx == 1\n")
	})
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("cyclic sequence", func(t *testing.T) {
		n := printText("loop")
		n.Next = n
		g, err := NewGenerator(BackendGo, DefaultOptions())
		require.NoError(t, err)

		_, err = g.Generate(graph(n))
		assert.ErrorIs(t, err, ErrCyclicGraph)
	})

	t.Run("statement in a value slot", func(t *testing.T) {
		n := &block.Node{
			Kind:   block.KindTextPrint,
			Values: map[string]*block.Node{SlotText: printText("inner")},
		}
		g, err := NewGenerator(BackendNatural, DefaultOptions())
		require.NoError(t, err)

		_, err = g.Generate(graph(n))
		assert.ErrorIs(t, err, ErrSlotMismatch)
	})

	t.Run("unknown kind", func(t *testing.T) {
		g, err := NewGenerator(BackendGo, DefaultOptions())
		require.NoError(t, err)

		_, err = g.Generate(graph(&block.Node{ID: "x", Kind: "math_random"}))
		assert.ErrorIs(t, err, block.ErrUnknownKind)
	})
}
