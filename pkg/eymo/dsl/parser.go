package dsl

import (
	"fmt"
	"strings"
)

// Parse lexes and parses src into a Program: one Statement per non-blank
// line. A trailing newline is tolerated (and not required).
func Parse(src string) (Program, error) {
	toks, err := newLexer(src).tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseProgram()
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.cur()
	if t.kind != k {
		return token{}, fmt.Errorf("dsl: expected %s at byte offset %d, got %q", what, t.off, t.text)
	}
	return p.next(), nil
}

func (p *parser) parseProgram() (Program, error) {
	var prog Program
	for p.cur().kind != tokEOF {
		if p.cur().kind == tokNewline {
			p.next()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog = append(prog, stmt)
	}
	return prog, nil
}

func (p *parser) parseStatement() (Statement, error) {
	shapeRef, err := p.parseShapeRef()
	if err != nil {
		return Statement{}, err
	}
	if _, err := p.expect(tokColon, "':'"); err != nil {
		return Statement{}, err
	}

	var ops []Operation
	for {
		op, err := p.parseOperation()
		if err != nil {
			return Statement{}, err
		}
		ops = append(ops, op)

		if p.cur().kind == tokComma {
			p.next()
			continue
		}
		break
	}

	if p.cur().kind == tokNewline {
		p.next()
	} else if p.cur().kind != tokEOF {
		return Statement{}, fmt.Errorf("dsl: expected end of statement at byte offset %d, got %q", p.cur().off, p.cur().text)
	}

	return Statement{Transform: Transform{Shape: shapeRef, Operations: ops}}, nil
}

func (p *parser) parseShapeRef() (ShapeRef, error) {
	t := p.cur()
	if t.kind != tokIdent {
		return ShapeRef{}, fmt.Errorf("dsl: expected shape reference at byte offset %d, got %q", t.off, t.text)
	}

	if t.text == "rect" {
		p.next()
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return ShapeRef{}, err
		}
		vals, err := p.parseNumberList(4)
		if err != nil {
			return ShapeRef{}, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return ShapeRef{}, err
		}
		return ShapeRef{
			IsRect: true,
			Rect:   Rect{Left: int(vals[0]), Top: int(vals[1]), W: int(vals[2]), H: int(vals[3])},
		}, nil
	}

	part, err := facePartFromIdent(t.text, t.off)
	if err != nil {
		return ShapeRef{}, err
	}
	p.next()

	var idx *FaceIdx
	if p.cur().kind == tokHash {
		p.next()
		n, err := p.expect(tokNumber, "face index")
		if err != nil {
			return ShapeRef{}, err
		}
		// An explicit sign makes the index relative; a bare digit string
		// is absolute. "#+1" and "#-1" both shift off the current face.
		kind := FaceIdxAbsolute
		if strings.HasPrefix(n.text, "-") || strings.HasPrefix(n.text, "+") {
			kind = FaceIdxRelative
		}
		idx = &FaceIdx{Kind: kind, Value: int(n.num)}
	}

	return ShapeRef{Part: part, Idx: idx}, nil
}

func facePartFromIdent(name string, off int) (FacePart, error) {
	switch name {
	case "leye":
		return FacePartLEye, nil
	case "reye":
		return FacePartREye, nil
	case "leye_region":
		return FacePartLEyeRegion, nil
	case "reye_region":
		return FacePartREyeRegion, nil
	case "face":
		return FacePartFace, nil
	case "mouth":
		return FacePartMouth, nil
	case "nose":
		return FacePartNose, nil
	case "forehead":
		return FacePartForehead, nil
	default:
		return 0, fmt.Errorf("dsl: unknown face part %q at byte offset %d", name, off)
	}
}

func (p *parser) parseNumberList(want int) ([]float64, error) {
	vals := make([]float64, 0, want)
	for i := 0; i < want; i++ {
		n, err := p.expect(tokNumber, "number")
		if err != nil {
			return nil, err
		}
		vals = append(vals, n.num)
		if i < want-1 {
			if _, err := p.expect(tokComma, "','"); err != nil {
				return nil, err
			}
		}
	}
	return vals, nil
}

func (p *parser) parseOperation() (Operation, error) {
	name, err := p.expect(tokIdent, "operation name")
	if err != nil {
		return Operation{}, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return Operation{}, err
	}

	var op Operation
	switch name.text {
	case "tile":
		op = Operation{Kind: OpTile}
	case "scale":
		vals, err := p.parseNumberList(1)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpScale, Scalar: vals[0]}
	case "rotate":
		vals, err := p.parseNumberList(1)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpRotate, Scalar: vals[0]}
	case "spin":
		vals, err := p.parseNumberList(1)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpSpin, Scalar: vals[0]}
	case "brightness":
		vals, err := p.parseNumberList(1)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpBrightness, Scalar: vals[0]}
	case "saturation":
		vals, err := p.parseNumberList(1)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpSaturation, Scalar: vals[0]}
	case "translate":
		vals, err := p.parseNumberList(2)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpTranslate, X: vals[0], Y: vals[1]}
	case "drift":
		vals, err := p.parseNumberList(2)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpDrift, X: vals[0], Y: vals[1]}
	case "chans":
		vals, err := p.parseNumberList(3)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpChans, R: vals[0], G: vals[1], B: vals[2]}
	case "reshape":
		vals, err := p.parseNumberList(4)
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpReshape, DXL: vals[0], DXR: vals[1], DYT: vals[2], DYB: vals[3]}
	case "flip":
		arg, err := p.expect(tokIdent, "flip argument")
		if err != nil {
			return Operation{}, err
		}
		var fa FlipArg
		switch arg.text {
		case "v":
			fa = FlipArgVertical
		case "h":
			fa = FlipArgHorizontal
		case "vh":
			fa = FlipArgBoth
		default:
			return Operation{}, fmt.Errorf("dsl: unknown flip argument %q at byte offset %d", arg.text, arg.off)
		}
		op = Operation{Kind: OpFlip, Flip: fa}
	case "copy_to", "write_to":
		var targets []ShapeRef
		for {
			ref, err := p.parseShapeRef()
			if err != nil {
				return Operation{}, err
			}
			targets = append(targets, ref)
			if p.cur().kind == tokComma {
				p.next()
				continue
			}
			break
		}
		op = Operation{Kind: OpCopyTo, Targets: targets}
	case "swap_with":
		ref, err := p.parseShapeRef()
		if err != nil {
			return Operation{}, err
		}
		op = Operation{Kind: OpSwapWith, Target: ref}
	default:
		return Operation{}, fmt.Errorf("dsl: unknown operation %q at byte offset %d", name.text, name.off)
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return Operation{}, err
	}
	return op, nil
}
