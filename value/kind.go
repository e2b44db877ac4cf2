package value

// Kind enumerates the closed set of attribute kinds a record can carry.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindEnum
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal32
	KindDecimal64
	KindDecimal128
	KindComplex32
	KindComplex64
	KindTimestamp
	KindRString
	KindUString
	KindBString
	KindBlob
	KindXML
	KindList
	KindBList
	KindSet
	KindBSet
	KindMap
	KindBMap
	KindRecord
	KindOptional
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindBool:       "boolean",
	KindEnum:       "enum",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindUint8:      "uint8",
	KindUint16:     "uint16",
	KindUint32:     "uint32",
	KindUint64:     "uint64",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindDecimal32:  "decimal32",
	KindDecimal64:  "decimal64",
	KindDecimal128: "decimal128",
	KindComplex32:  "complex32",
	KindComplex64:  "complex64",
	KindTimestamp:  "timestamp",
	KindRString:    "rstring",
	KindUString:    "ustring",
	KindBString:    "bstring",
	KindBlob:       "blob",
	KindXML:        "xml",
	KindList:       "list",
	KindBList:      "blist",
	KindSet:        "set",
	KindBSet:       "bset",
	KindMap:        "map",
	KindBMap:       "bmap",
	KindRecord:     "tuple",
	KindOptional:   "optional",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool { return k >= KindInt8 && k <= KindInt64 }

// IsUnsigned reports whether k is an unsigned integer kind.
func (k Kind) IsUnsigned() bool { return k >= KindUint8 && k <= KindUint64 }

// IsFloat reports whether k is a binary floating point kind.
func (k Kind) IsFloat() bool { return k == KindFloat32 || k == KindFloat64 }

// IsDecimal reports whether k is a fixed-precision decimal kind.
func (k Kind) IsDecimal() bool { return k >= KindDecimal32 && k <= KindDecimal128 }

// IsNumeric reports whether JSON numbers can be bound to k.
func (k Kind) IsNumeric() bool { return k.IsSigned() || k.IsUnsigned() || k.IsFloat() || k.IsDecimal() }

// IsStringLike reports whether k holds character data bound from JSON strings.
func (k Kind) IsStringLike() bool { return k == KindRString || k == KindUString || k == KindBString }

// IsList reports whether k is an ordered list (bounded or not).
func (k Kind) IsList() bool { return k == KindList || k == KindBList }

// IsSet reports whether k is a set (bounded or not).
func (k Kind) IsSet() bool { return k == KindSet || k == KindBSet }

// IsMap reports whether k is a map (bounded or not).
func (k Kind) IsMap() bool { return k == KindMap || k == KindBMap }

// IsCollection reports whether k is a list, set or map.
func (k Kind) IsCollection() bool { return k.IsList() || k.IsSet() || k.IsMap() }

// IsBounded reports whether k carries an upper size bound.
func (k Kind) IsBounded() bool {
	return k == KindBList || k == KindBSet || k == KindBMap || k == KindBString
}

// IsLeaf reports whether k is a primitive kind with no nested type.
func (k Kind) IsLeaf() bool { return k > KindInvalid && k <= KindXML }
