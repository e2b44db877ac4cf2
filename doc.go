package recjson

// Package recjson converts between JSON text and typed record values:
//
// - Decode binds a JSON object to a record by attribute name, dropping keys
//   and values that do not fit the declared types
// - Encode writes a record, list, set or map value as compact JSON
// - Document retains one parsed document and answers pointer queries with
//   lenient coercion and a status per query
//
// Design policy:
// - Keep only public APIs in the root package; put token plumbing under internal/.
// - Record types live in value/, the type descriptor grammar and YAML schemas in schema/.
// - Tokenizers are pluggable via JSONDriver (source/gojson by default, source/json).
//
// Typical usage:
//
//  t := schema.MustParseType("tuple<int32 id, list<rstring> tags>")
//  rec, err := recjson.Decode(data, value.New(t))
//  out := recjson.Encode(rec, "")
//
//  doc := recjson.NewDocument()
//  _ = doc.Parse(data)
//  n, st := doc.QueryInt64("/id", -1)
//
