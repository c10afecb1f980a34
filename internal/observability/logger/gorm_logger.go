package logger

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures the GORM zap logger.
type GormLoggerConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// IgnoreRecordNotFound keeps lookups of absent api keys or ingestion
	// runs out of the error log.
	IgnoreRecordNotFound bool
}

// DefaultGormLoggerConfig returns defaults tuned for ingestion batches, which
// routinely take longer than single-row lookups.
func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:                gormlogger.Warn,
		SlowThreshold:        500 * time.Millisecond,
		IgnoreRecordNotFound: true,
	}
}

// GormLogger routes GORM output through the request-scoped zap logger.
type GormLogger struct {
	cfg GormLoggerConfig
}

func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{cfg: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.cfg.Level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) message(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.cfg.Level < min {
		return
	}
	fields := []zap.Field{zap.String("component", "gorm")}
	if len(data) > 0 {
		fields = append(fields, zap.Any("data", data))
	}
	if ce := FromContext(ctx).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

// Trace logs failed and slow statements, and every statement at Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.cfg.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.cfg.Level >= gormlogger.Error && (!errors.Is(err, gormlogger.ErrRecordNotFound) || !l.cfg.IgnoreRecordNotFound):
		l.query(ctx, fc, elapsed, err, zapcore.ErrorLevel)
	case l.cfg.SlowThreshold != 0 && elapsed > l.cfg.SlowThreshold && l.cfg.Level >= gormlogger.Warn:
		l.query(ctx, fc, elapsed, nil, zapcore.WarnLevel)
	case l.cfg.Level >= gormlogger.Info:
		l.query(ctx, fc, elapsed, nil, zapcore.DebugLevel)
	}
}

// ParamsFilter drops bound values. Fact rows carry per-unit headcounts and
// api key lookups carry hashes, neither of which belongs in logs.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) query(ctx context.Context, fc func() (string, int64), elapsed time.Duration, err error, level zapcore.Level) {
	sql, rows := fc()
	sql = strings.TrimSpace(sql)
	fields := []zap.Field{
		zap.String("component", "gorm"),
		zap.String("sql", sql),
		zap.String("operation", operationFromSQL(sql)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if table := tableFromSQL(sql); table != "" {
		fields = append(fields, zap.String("table", table))
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	if ce := FromContext(ctx).Check(level, "gorm.query"); ce != nil {
		ce.Write(fields...)
	}
}

var sqlVerbs = map[string]struct{}{
	"SELECT": {}, "INSERT": {}, "UPDATE": {}, "DELETE": {}, "MERGE": {},
}

// operationFromSQL returns the statement's top-level verb. Verbs inside
// parentheses (CTE bodies, subqueries) only count when there is no
// top-level verb at all.
func operationFromSQL(sql string) string {
	nested := ""
	for _, w := range sqlWords(sql) {
		if _, ok := sqlVerbs[w.text]; !ok {
			continue
		}
		if w.depth == 0 {
			return w.text
		}
		if nested == "" {
			nested = w.text
		}
	}
	if nested != "" {
		return nested
	}
	return "UNKNOWN"
}

// tableFromSQL returns the first top-level table named after FROM, INTO or
// UPDATE, without quoting.
func tableFromSQL(sql string) string {
	words := sqlWords(sql)
	for i, w := range words {
		if w.depth != 0 || i+1 >= len(words) {
			continue
		}
		switch w.text {
		case "FROM", "INTO", "UPDATE":
			next := words[i+1]
			if next.depth == 0 && next.raw != "" {
				return strings.ToLower(next.raw)
			}
		}
	}
	return ""
}

type sqlWord struct {
	text  string // upper-cased
	raw   string // identifier with quotes stripped
	depth int
}

// sqlWords splits sql into identifier-like words, tracking parenthesis depth
// and skipping string literals.
func sqlWords(sql string) []sqlWord {
	var (
		words []sqlWord
		cur   strings.Builder
		depth int
		quote rune
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		raw := cur.String()
		words = append(words, sqlWord{text: strings.ToUpper(raw), raw: raw, depth: depth})
		cur.Reset()
	}

	for _, r := range sql {
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		switch {
		case r == '\'':
			flush()
			quote = r
		case r == '"' || r == '`':
			// quoted identifiers are read as plain words
		case r == '(':
			flush()
			depth++
		case r == ')':
			flush()
			if depth > 0 {
				depth--
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.':
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}

var _ gormlogger.Interface = (*GormLogger)(nil)
