package parser

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatwin/paradoxdriver/internal/ast"
)

func parseOne(t *testing.T, src string) *ast.SelectStatement {
	t.Helper()
	stmts, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	sel, ok := stmts[0].(*ast.SelectStatement)
	require.True(t, ok, "got %T", stmts[0])
	return sel
}

func requireSyntaxError(t *testing.T, src string) *SyntaxError {
	t.Helper()
	stmts, err := Parse(src)
	require.Error(t, err)
	assert.Nil(t, stmts)
	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr), "got %T: %v", err, err)
	return synErr
}

func TestParseQuotedTableName(t *testing.T) {
	sel := parseOne(t, `SELECT * FROM "cliente.db"`)

	assert.Equal(t, []ast.FieldReference{{Name: "*"}}, sel.Fields)
	assert.Equal(t, []ast.TableReference{{Name: "CLIENTE.DB"}}, sel.Tables)
	assert.Empty(t, sel.Joins)
}

func TestParseAliasesAndQualifiers(t *testing.T) {
	sel := parseOne(t, "select CODIGO as código, estado.NOME nome FROM cliente, estado")

	assert.Equal(t, []ast.FieldReference{
		{Name: "CODIGO", Alias: "código"},
		{Name: "NOME", Qualifier: "estado", Alias: "nome"},
	}, sel.Fields)
	assert.Equal(t, []ast.TableReference{{Name: "CLIENTE"}, {Name: "ESTADO"}}, sel.Tables)
	assert.Empty(t, sel.Joins, "a comma does not produce a join clause")
}

func TestParseCrossJoin(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t1 CROSS JOIN t2")

	assert.Equal(t, []ast.TableReference{{Name: "T1"}, {Name: "T2"}}, sel.Tables)
	assert.Equal(t, []ast.JoinClause{{Left: 0, Right: 1, Type: ast.JoinCross}}, sel.Joins)
}

func TestParseLeftJoinOn(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t1 LEFT JOIN t2 ON t1.id = t2.id")

	assert.Equal(t, []ast.JoinClause{{
		Left: 0, Right: 1, Type: ast.JoinLeft,
		On: &ast.Predicate{Offset: 33, Text: "t1.id = t2.id"},
	}}, sel.Joins)
}

func TestParseDanglingComma(t *testing.T) {
	synErr := requireSyntaxError(t, "SELECT a FROM t1,")

	assert.Equal(t, 17, synErr.Offset)
	assert.Empty(t, synErr.Token)
	assert.Equal(t, ErrCodeSyntax, synErr.Code())
	assert.Contains(t, synErr.Error(), "end of input")
}

func TestParseUnsupportedStatement(t *testing.T) {
	tests := []struct {
		src     string
		keyword string
		offset  int
	}{
		{"INSERT INTO t VALUES (1)", "INSERT", 0},
		{"update t set a = 1", "UPDATE", 0},
		{"  delete from t", "DELETE", 2},
		{"Create TABLE t (a)", "CREATE", 0},
		{"DROP TABLE t", "DROP", 0},
		{"alter table t", "ALTER", 0},
		{"truncate t", "TRUNCATE", 0},
		{"SELECT a FROM t; INSERT INTO t VALUES (1)", "INSERT", 17},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			stmts, err := Parse(tt.src)
			require.Error(t, err)
			assert.Nil(t, stmts)

			var unsupported *UnsupportedStatementError
			require.True(t, errors.As(err, &unsupported), "got %T", err)
			assert.Equal(t, tt.keyword, unsupported.Keyword)
			assert.Equal(t, tt.offset, unsupported.Offset)
			assert.Equal(t, ErrCodeUnsupported, unsupported.Code())
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, src := range []string{"", "   \n\t", ";", " ; ;; ", "-- nothing here", "/* */"} {
		stmts, err := Parse(src)
		require.NoError(t, err, "src %q", src)
		assert.NotNil(t, stmts, "src %q", src)
		assert.Empty(t, stmts, "src %q", src)
	}
}

func TestParseMultipleStatements(t *testing.T) {
	stmts, err := Parse("SELECT a FROM t; select b from u;;\nSELECT c FROM v")
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	names := make([]string, len(stmts))
	for i, stmt := range stmts {
		names[i] = stmt.(*ast.SelectStatement).Tables[0].Name
	}
	assert.Equal(t, []string{"T", "U", "V"}, names)
}

func TestParseFailsWholeScript(t *testing.T) {
	synErr := requireSyntaxError(t, "SELECT a FROM t; SELECT FROM u")

	assert.Equal(t, 24, synErr.Offset)
	assert.Equal(t, "FROM", synErr.Token)
}

func TestParseFullSelect(t *testing.T) {
	sel := parseOne(t, "SELECT c.nome FROM cliente c LEFT OUTER JOIN estado AS e ON c.uf = e.uf "+
		"WHERE c.ativo = 1 ORDER BY c.nome")

	assert.Equal(t, []ast.FieldReference{{Name: "nome", Qualifier: "c"}}, sel.Fields)
	assert.Equal(t, []ast.TableReference{
		{Name: "CLIENTE", Alias: "c"},
		{Name: "ESTADO", Alias: "e"},
	}, sel.Tables)
	assert.Equal(t, []ast.JoinClause{{
		Left: 0, Right: 1, Type: ast.JoinLeft,
		On: &ast.Predicate{Offset: 60, Text: "c.uf = e.uf"},
	}}, sel.Joins)
	assert.Equal(t, &ast.Predicate{Offset: 78, Text: "c.ativo = 1"}, sel.Where)
	assert.Nil(t, sel.GroupBy)
	assert.Equal(t, &ast.Predicate{Offset: 99, Text: "c.nome"}, sel.OrderBy)
}

func TestParseGroupByFoldsHaving(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t GROUP BY a HAVING count(*) > 1 ORDER BY a DESC")

	assert.Nil(t, sel.Where)
	assert.Equal(t, &ast.Predicate{Offset: 25, Text: "a HAVING count(*) > 1"}, sel.GroupBy)
	assert.Equal(t, &ast.Predicate{Offset: 56, Text: "a DESC"}, sel.OrderBy)
}

func TestParsePredicateWhitespace(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t WHERE a=1  AND\n  /* c */ b = (2)")
	assert.Equal(t, &ast.Predicate{Offset: 22, Text: "a=1 AND b = (2)"}, sel.Where)
}

func TestParseJoinChain(t *testing.T) {
	sel := parseOne(t, "SELECT * FROM a, b CROSS JOIN c RIGHT JOIN d ON c.x = d.x LEFT JOIN e")

	assert.Equal(t, []ast.TableReference{
		{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"},
	}, sel.Tables)
	require.Len(t, sel.Joins, 3)
	assert.Equal(t, ast.JoinClause{Left: 1, Right: 2, Type: ast.JoinCross}, sel.Joins[0])
	assert.Equal(t, 2, sel.Joins[1].Left)
	assert.Equal(t, 3, sel.Joins[1].Right)
	assert.Equal(t, ast.JoinRight, sel.Joins[1].Type)
	assert.Equal(t, "c.x = d.x", sel.Joins[1].On.Text)
	assert.Equal(t, ast.JoinClause{Left: 3, Right: 4, Type: ast.JoinLeft}, sel.Joins[2])
}

func TestParseOnStopsAtComma(t *testing.T) {
	sel := parseOne(t, "SELECT * FROM a LEFT JOIN b ON f(a.x, b.y) = 1, c")

	assert.Len(t, sel.Tables, 3)
	require.Len(t, sel.Joins, 1)
	assert.Equal(t, "f(a.x, b.y) = 1", sel.Joins[0].On.Text)
}

func TestParseQuotedIdentifiers(t *testing.T) {
	sel := parseOne(t, `SELECT "from" AS "select", "a""b" FROM "order" "x y"`)

	assert.Equal(t, []ast.FieldReference{
		{Name: "from", Alias: "select"},
		{Name: `a"b`},
	}, sel.Fields)
	assert.Equal(t, []ast.TableReference{{Name: "ORDER", Alias: "x y"}}, sel.Tables)
}

func TestParseQualifiedWildcard(t *testing.T) {
	sel := parseOne(t, "SELECT c.*, e.nome FROM cliente c, estado e")

	assert.Equal(t, []ast.FieldReference{
		{Name: "*", Qualifier: "c"},
		{Name: "nome", Qualifier: "e"},
	}, sel.Fields)
	assert.True(t, sel.Fields[0].IsWildcard())
}

func TestParseKeywordNeverImplicitAlias(t *testing.T) {
	sel := parseOne(t, "SELECT a FROM t WHERE x = 1")

	assert.Equal(t, []ast.TableReference{{Name: "T"}}, sel.Tables)
	require.NotNil(t, sel.Where)
	assert.Equal(t, "x = 1", sel.Where.Text)
}

func TestParsePreservesFieldCase(t *testing.T) {
	sel := parseOne(t, "SELECT Nome, eStAdO.Uf AS sigla FROM Cliente cLi")

	assert.Equal(t, "Nome", sel.Fields[0].Name)
	assert.Equal(t, "eStAdO", sel.Fields[1].Qualifier)
	assert.Equal(t, "Uf", sel.Fields[1].Name)
	assert.Equal(t, "sigla", sel.Fields[1].Alias)
	assert.Equal(t, ast.TableReference{Name: "CLIENTE", Alias: "cLi"}, sel.Tables[0])
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		offset int
		token  string
	}{
		{"missing FROM", "SELECT a", 8, ""},
		{"missing field", "SELECT FROM t", 7, "FROM"},
		{"trailing field comma", "SELECT a, FROM t", 10, "FROM"},
		{"missing table", "SELECT a FROM", 13, ""},
		{"keyword after AS", "SELECT a AS FROM t", 12, "FROM"},
		{"table alias keyword after AS", "SELECT a FROM t AS WHERE", 19, "WHERE"},
		{"qualifier without name", "SELECT t. FROM t", 10, "FROM"},
		{"wildcard alias", "SELECT * x FROM t", 9, "x"},
		{"distinct", "SELECT DISTINCT a FROM t", 7, "DISTINCT"},
		{"literal projection", "SELECT 1 FROM t", 7, "1"},
		{"leading punctuation", "(SELECT a FROM t)", 0, "("},
		{"leading keyword", "WHERE a = 1", 0, "WHERE"},
		{"inner join", "SELECT a FROM t1 INNER JOIN t2 ON t1.x = t2.x", 17, "INNER"},
		{"full join", "SELECT a FROM t1 FULL JOIN t2", 17, "FULL"},
		{"natural join", "SELECT a FROM t1 NATURAL JOIN t2", 17, "NATURAL"},
		{"bare join", "SELECT a FROM t1 JOIN t2", 17, "JOIN"},
		{"incomplete cross join", "SELECT a FROM t1 CROSS t2", 23, "t2"},
		{"incomplete left join", "SELECT a FROM t1 LEFT JOIN", 26, ""},
		{"cross join with on", "SELECT a FROM t1 CROSS JOIN t2 ON t1.x = t2.x", 31, "ON"},
		{"empty on", "SELECT a FROM t1 LEFT JOIN t2 ON WHERE a = 1", 33, "WHERE"},
		{"empty where", "SELECT a FROM t WHERE", 21, ""},
		{"where then order", "SELECT a FROM t WHERE ORDER BY a", 22, "ORDER"},
		{"group without by", "SELECT a FROM t GROUP a", 22, "a"},
		{"empty order by", "SELECT a FROM t ORDER BY ;", 25, ";"},
		{"having without group", "SELECT a FROM t HAVING a > 1", 16, "HAVING"},
		{"union", "SELECT a FROM t UNION SELECT b FROM u", 16, "UNION"},
		{"limit", "SELECT a FROM t LIMIT 10", 16, "LIMIT"},
		{"unclosed paren", "SELECT a FROM t WHERE (a = 1", 28, ""},
		{"unopened paren", "SELECT a FROM t WHERE a = 1)", 27, ")"},
		{"missing semicolon", "SELECT a FROM t SELECT b FROM u", 16, "SELECT"},
		{"string table", "SELECT a FROM 'cliente'", 14, "'cliente'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synErr := requireSyntaxError(t, tt.src)
			assert.Equal(t, tt.offset, synErr.Offset, synErr.Error())
			assert.Equal(t, tt.token, synErr.Token)
			assert.NotEmpty(t, synErr.Message)
		})
	}
}

func TestParseLexicalErrorPropagates(t *testing.T) {
	stmts, err := Parse(`SELECT a FROM "cliente`)
	assert.Nil(t, stmts)

	var lexErr *LexicalError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, 14, lexErr.Offset)
}

func TestParseLimits(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		src    string
		limit  string
		offset int
	}{
		{"input bytes", Limits{MaxInputBytes: 10}, "SELECT a FROM t", "input bytes", 10},
		{"tokens", Limits{MaxTokens: 3}, "SELECT a FROM t", "tokens", 14},
		{"statements", Limits{MaxStatements: 1}, "SELECT a FROM t; SELECT b FROM u", "statements", 17},
		{"nesting depth", Limits{MaxDepth: 2}, "SELECT a FROM t WHERE ((( a )))", "nesting depth", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := New(tt.limits).Parse(tt.src)
			assert.Nil(t, stmts)

			var limitErr *ResourceLimitError
			require.True(t, errors.As(err, &limitErr), "got %T: %v", err, err)
			assert.Equal(t, tt.limit, limitErr.Limit)
			assert.Equal(t, tt.offset, limitErr.Offset)

			var parseErr Error
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, ErrCodeLimit, parseErr.Code())
		})
	}
}

func TestParseWithinLimits(t *testing.T) {
	p := New(Limits{MaxStatements: 2, MaxDepth: 3})
	stmts, err := p.Parse("SELECT a FROM t WHERE ((( a ))); SELECT b FROM u")
	require.NoError(t, err)
	assert.Len(t, stmts, 2)
	assert.Equal(t, Limits{MaxStatements: 2, MaxDepth: 3}, p.Limits())
}

func TestParseFieldAndTableCounts(t *testing.T) {
	for n := 1; n <= 8; n++ {
		fields := make([]string, n)
		tables := make([]string, n)
		for i := range n {
			fields[i] = fmt.Sprintf("f%d", i)
			tables[i] = fmt.Sprintf("t%d", i)
		}
		src := "SELECT " + strings.Join(fields, ", ") + " FROM " + strings.Join(tables, ", ")

		sel := parseOne(t, src)
		require.Len(t, sel.Fields, n)
		require.Len(t, sel.Tables, n)
		for i := range n {
			assert.Equal(t, fields[i], sel.Fields[i].Name)
			assert.Equal(t, strings.ToUpper(tables[i]), sel.Tables[i].Name)
		}
	}
}

func TestParseResultValidates(t *testing.T) {
	stmts, err := Parse("SELECT c.*, e.nome n FROM cliente c LEFT JOIN estado e ON c.uf = e.uf, cidade " +
		"CROSS JOIN pais WHERE c.x = 1 GROUP BY e.nome ORDER BY n")
	require.NoError(t, err)
	assert.Empty(t, ast.Validate(stmts))
}

func TestParseConcurrent(t *testing.T) {
	const src = "select CODIGO as código, estado.NOME nome FROM cliente LEFT JOIN estado ON a = b"
	want, err := Parse(src)
	require.NoError(t, err)

	p := New(DefaultLimits())
	var wg sync.WaitGroup
	results := make([][]ast.Statement, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Parse(src)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
