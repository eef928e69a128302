package mcpserver

// TemplateFormatContract describes the template CSV format and the record
// JSON shapes that LLM consumers should follow.
const TemplateFormatContract = `# Kindred Template Format Contract

## Template CSV files

Each template file is a CSV with this header row:

` + "```" + `csv
"Navigation type","Category","Is enabled","URL","Comment"
` + "```" + `

- **Navigation type**: ` + "`" + `People` + "`" + `, ` + "`" + `Families` + "`" + `, ` + "`" + `Places` + "`" + ` or ` + "`" + `Sources` + "`" + `.
  ` + "`" + `*` + "`" + ` applies the row to every type; a comma list (` + "`" + `People,Places` + "`" + `) to several.
- **Category**: free-form grouping label shown to the user (e.g. ` + "`" + `Archives` + "`" + `).
- **Is enabled**: ` + "`" + `1` + "`" + `/` + "`" + `true` + "`" + `/` + "`" + `yes` + "`" + ` enable the row; anything else disables it.
- **URL**: the template. Placeholders use single braces: ` + "`" + `{surname}` + "`" + `, ` + "`" + `{birth_year}` + "`" + `.
  Unknown placeholders stay in the URL as literal text.
- **Comment**: optional free text.

The file name carries the locale: ` + "`" + `uk-links.csv` + "`" + ` is the ` + "`" + `UK` + "`" + ` file. Special file
names: ` + "`" + `common-links.csv` + "`" + ` (global sites), ` + "`" + `static-links.csv` + "`" + ` (ready links, no
substitution), ` + "`" + `uid-links.csv` + "`" + ` (templates driven by attribute-mapped identifiers).
A user file with the same name as a built-in file replaces it.

## Placeholder vocabulary

- People: ` + "`" + `given` + "`" + `, ` + "`" + `middle` + "`" + `, ` + "`" + `surname` + "`" + `, ` + "`" + `birth_year` + "`" + `, ` + "`" + `birth_year_from/to/before/after` + "`" + `,
  ` + "`" + `death_year` + "`" + ` (same variants), ` + "`" + `birth_place` + "`" + `, ` + "`" + `birth_root_place` + "`" + `, ` + "`" + `death_place` + "`" + `,
  ` + "`" + `death_root_place` + "`" + `, ` + "`" + `locale` + "`" + `.
- Families: the People keys prefixed with ` + "`" + `father_` + "`" + ` and ` + "`" + `mother_` + "`" + `, plus
  ` + "`" + `marriage_year` + "`" + `/` + "`" + `marriage_place` + "`" + ` and ` + "`" + `divorce_year` + "`" + `/` + "`" + `divorce_place` + "`" + ` (with variants).
- Places: ` + "`" + `place` + "`" + `, ` + "`" + `root_place` + "`" + `, ` + "`" + `latitude` + "`" + `, ` + "`" + `longitude` + "`" + `, ` + "`" + `type` + "`" + `, ` + "`" + `title` + "`" + `.
- Sources: ` + "`" + `source_title` + "`" + `.

## Record JSON shapes (search_links tool)

` + "```" + `json
{"given": "John William", "surname": "Smith",
 "birth": {"date": {"year": 1885}, "place": {"name": "Leeds", "parent": {"name": "England"}}},
 "attributes": [{"name": "FamilySearch ID", "value": "ABCD-123"}]}
` + "```" + `

Dates accept exactly one shape: ` + "`" + `year` + "`" + `, ` + "`" + `from_year` + "`" + `+` + "`" + `to_year` + "`" + `, ` + "`" + `before_year` + "`" + ` or
` + "`" + `after_year` + "`" + `. Families carry ` + "`" + `father` + "`" + ` and ` + "`" + `mother` + "`" + ` person objects plus ` + "`" + `marriage` + "`" + `
and ` + "`" + `divorce` + "`" + ` events. Places carry a ` + "`" + `place` + "`" + ` object; sources a ` + "`" + `title` + "`" + `.
Missing fields render as empty strings, never errors.

Every record kind also accepts ` + "`" + `notes` + "`" + ` (an array of note texts; URLs found in
them surface as ` + "`" + `NOTE` + "`" + ` rows) and ` + "`" + `urls` + "`" + ` (the record's own address list,
surfaced as ` + "`" + `INTERNET` + "`" + ` rows), when those features are enabled.
`
