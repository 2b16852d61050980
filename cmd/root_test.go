package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clems4ever/dialog-ngram/dialog"
	"github.com/clems4ever/dialog-ngram/report"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("NGRAM_CONFIG", "")

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func templateXML(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, dialog.Template().PrettyPrint(&buf))
	return buf.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoot_Template(t *testing.T) {
	expected, err := os.ReadFile("../dialog/testdata/template.xml")
	require.NoError(t, err)

	res := execute(t, "", "-t")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, string(expected), res.stdout)
	assert.Empty(t, res.stderr)

	// Counting is skipped, so a bad input does not matter.
	res = execute(t, "", "--template", "-i", "missing.xml", "-c")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, string(expected), res.stdout)
}

func TestRoot_CounterFromFile(t *testing.T) {
	golden, err := os.ReadFile("../report/testdata/template_text_golden.txt")
	require.NoError(t, err)
	path := writeFile(t, "corpus.xml", templateXML(t))

	res := execute(t, "", "-i", path, "-c")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, string(golden), res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRoot_Stdin(t *testing.T) {
	for _, input := range []string{"--", "-"} {
		t.Run(input, func(t *testing.T) {
			res := execute(t, templateXML(t), "-i", input, "-c", "-I")
			require.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, "<s>:me -> 2\n")
			assert.Contains(t, res.stdout, "\nme -> 2\n")
			assert.Contains(t, res.stdout, "\ntoo -> 1\n")
			assert.Contains(t, res.stdout, "\n<s> -> 6\n")
		})
	}
}

func TestRoot_SingleUtterance(t *testing.T) {
	input := `<dialog><s><utt uid="1">Hey, how are you?</utt></s></dialog>`

	res := execute(t, input, "-i", "--", "-c")
	require.Equal(t, 0, res.code)
	assert.Equal(t, `Ngram table
-----------
<s>:Hey -> 1
Hey:how -> 1
are:you -> 1
how:are -> 1

Ngram word occurrence
---------------------
<s> -> 1
Hey -> 1
are -> 1
how -> 1
you -> 1
`, res.stdout)
}

func TestRoot_WithoutCounterPrintsNothing(t *testing.T) {
	path := writeFile(t, "corpus.xml", templateXML(t))

	res := execute(t, "", "-i", path)
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRoot_EmptyDialog(t *testing.T) {
	res := execute(t, "<dialog/>", "-i", "--", "-c")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "Ngram table\n-----------\n\nNgram word occurrence\n---------------------\n", res.stdout)
}

func TestRoot_FileNotFound(t *testing.T) {
	res := execute(t, "", "-i", filepath.Join(t.TempDir(), "missing.xml"), "-c")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Equal(t, msgNotFound+"\n", res.stderr)
}

func TestRoot_Malformed(t *testing.T) {
	res := execute(t, "<dialog><s><utt>Hey</s>", "-i", "--", "-c")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.True(t, strings.HasPrefix(res.stderr, msgMalformed+"\n"))
	assert.Contains(t, res.stderr, "Usage:")
}

func TestRoot_NoInput(t *testing.T) {
	res := execute(t, "", "-c")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Usage:")
	assert.Contains(t, res.stderr, "--input")
}

func TestRoot_Lenient(t *testing.T) {
	input := "<dialog><s><utt>Me!</utt><utt>Me, too!</s></dialog>"

	res := execute(t, input, "-i", "--", "-c")
	assert.Equal(t, 1, res.code)

	res = execute(t, input, "-i", "--", "-c", "--lenient")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "\nMe -> 2\n")
	assert.Contains(t, res.stdout, "\nMe:too -> 1\n")
}

func TestRoot_JSONFormat(t *testing.T) {
	path := writeFile(t, "corpus.xml", templateXML(t))

	res := execute(t, "", "-i", path, "-c", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, path, doc.Source)
	assert.Equal(t, 6, doc.Utterances)
	assert.Equal(t, 22, doc.Tokens)
	assert.NotEmpty(t, doc.RunID)
	assert.Len(t, doc.Unigrams, 15)
	assert.Len(t, doc.Bigrams, 15)
}

func TestRoot_InvalidFormat(t *testing.T) {
	res := execute(t, templateXML(t), "-i", "--", "-c", "-f", "csv")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Error: invalid configuration")
}

func TestRoot_EnvConfig(t *testing.T) {
	t.Setenv("NGRAM_INSENSITIVE", "true")

	res := execute(t, "<dialog><s><utt>Hi</utt><utt>hi</utt></s></dialog>", "-i", "--", "-c")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "\nhi -> 2\n")

	res = execute(t, "<dialog><s><utt>Hi</utt><utt>hi</utt></s></dialog>", "-i", "--", "-c", "--insensitive=false")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "\nHi -> 1\n")
	assert.Contains(t, res.stdout, "\nhi -> 1\n")
}

func TestRoot_FlagOverridesInvalidEnv(t *testing.T) {
	t.Setenv("NGRAM_FORMAT", "csv")

	res := execute(t, "<dialog/>", "-i", "--", "-c")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: invalid configuration")

	res = execute(t, "<dialog/>", "-i", "--", "-c", "--format", "text")
	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "Ngram table\n"))
}

func TestRoot_FormatCaseInsensitive(t *testing.T) {
	t.Setenv("NGRAM_FORMAT", "JSON")
	t.Setenv("NGRAM_LOG_LEVEL", "DEBUG")

	res := execute(t, templateXML(t), "-i", "--", "-c")
	require.Equal(t, 0, res.code, res.stderr)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, 22, doc.Tokens)
	assert.Contains(t, res.stderr, "tables built")

	res = execute(t, templateXML(t), "-i", "--", "-c", "-f", "YAML")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "tokens: 22")
}

func TestRoot_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "ngram.yaml", "report:\n  format: yaml\ncounter:\n  case_insensitive: true\n")

	res := execute(t, templateXML(t), "-i", "--", "-c", "--config", cfg)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "case_insensitive: true")
	assert.Contains(t, res.stdout, "run_id:")
}

func TestRoot_DebugLogging(t *testing.T) {
	res := execute(t, templateXML(t), "-i", "--", "--log-level", "debug")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stderr, "dialog loaded")
	assert.Contains(t, res.stderr, "utterances=6")
	assert.Contains(t, res.stderr, "tokens=22")
}

func TestRoot_Help(t *testing.T) {
	res := execute(t, "", "-h", "-c")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "Usage:")
	assert.NotContains(t, res.stdout, "Ngram table")
}

func TestRoot_UnknownFlag(t *testing.T) {
	res := execute(t, "", "--bogus")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: unknown flag: --bogus")
}

func TestTokenize(t *testing.T) {
	res := execute(t, templateXML(t), "tokenize", "-i", "--", "-I")
	require.Equal(t, 0, res.code, res.stderr)

	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	assert.Equal(t, []string{
		`1.1 uid=1 ["<s>" "hey" "how" "are" "you"]`,
		`1.2 uid=2 ["<s>" "im" "fine" "thank" "you"]`,
		`1.3 uid=1 ["<s>" "nice"]`,
		`2.1 uid=1 ["<s>" "whos" "around" "for" "lunch"]`,
		`2.2 uid=2 ["<s>" "me"]`,
		`2.3 uid=3 ["<s>" "me" "too"]`,
	}, lines)
}

func TestTokenize_EmptyTokens(t *testing.T) {
	res := execute(t, "<dialog><s><utt>a  b</utt><utt>?</utt></s></dialog>", "tokenize", "-i", "-")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "1.1 uid= [\"<s>\" \"a\" \"\" \"b\"]\n1.2 uid= [\"<s>\" \"\"]\n", res.stdout)
}

func TestTokenize_DebugLogging(t *testing.T) {
	res := execute(t, templateXML(t), "tokenize", "-i", "--", "--log-level", "debug", "--log-format", "json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, `"msg":"dialog loaded"`)
	assert.Contains(t, res.stderr, `"source":"stdin"`)
	assert.Contains(t, res.stderr, `"utterances":6`)
}

func TestTokenize_FileNotFound(t *testing.T) {
	res := execute(t, "", "tokenize", "-i", filepath.Join(t.TempDir(), "missing.xml"))
	assert.Equal(t, 1, res.code)
	assert.Equal(t, msgNotFound+"\n", res.stderr)
}
