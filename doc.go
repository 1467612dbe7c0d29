// Package readenv reads service configuration from mounted secret files, a
// .env file and the process environment into a typed record.
//
// For every field the first source holding a value wins:
//  1. a secret file, by default /run/secrets/<lower-cased name>, trimmed of
//     surrounding whitespace;
//  2. the dotenv file given with WithDotenvFile, key <UPPER-CASED NAME>;
//  3. the environment variable <UPPER-CASED NAME>.
//
// The raw string is converted by the field's ConvertFunc or by its Kind.
// Fields without a value take their default or default function; a field
// that is neither optional nor defaulted fails with ErrRequiredFieldMissing.
//
// Fields are declared either as a Schema:
//
//	rec, err := readenv.Resolve(readenv.Schema{
//	    {Name: "debug", Kind: readenv.KindBool, Default: false, HasDefault: true},
//	    {Name: "db_password", Override: readenv.FieldOverride{SkipEnv: true}},
//	    {Name: "region", Optional: true},
//	}, readenv.WithDotenvFile(".env"))
//
// or as a struct read with Read:
//
//	type Config struct {
//	    Debug      bool   `default:"false"`
//	    DBPassword string `file:"db_password" readenv:"noenv"`
//	    Region     *string
//	}
//	cfg, err := readenv.Read[Config](readenv.WithNaming(readenv.SnakeCaseNaming{}))
//
// Every call reads its sources again; keep the result instead of calling
// repeatedly.
package readenv
