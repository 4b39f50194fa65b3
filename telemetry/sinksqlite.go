package telemetry

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

// schema.sql 遥测数据库表结构：运行表与记录表
//
//go:embed schema.sql
var schemaSQL string

// SQLiteSink SQLite输出端
// 功能：把每条记录的信封写入本地SQLite数据库，以运行ID区分不同运行
type SQLiteSink struct {
	*sql.DB
	runID string
}

// NewSQLiteSink 打开数据库并初始化表结构
// 参数：path-数据库文件路径（":memory:"为内存库），runID-运行ID
func NewSQLiteSink(path, runID string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// 内存库每个连接是独立的数据库
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init telemetry schema: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO telemetry_runs (run_id) VALUES (?)`, runID); err != nil {
		db.Close()
		return nil, fmt.Errorf("insert telemetry run: %w", err)
	}
	log.Infof("sqlite telemetry sink %s run %s", path, runID)
	return &SQLiteSink{DB: db, runID: runID}, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

func (s *SQLiteSink) Write(r Record, envelope []byte) error {
	_, err := s.Exec(
		`INSERT INTO telemetry_records (run_id, record_key, topic, sim_time, envelope) VALUES (?, ?, ?, ?, ?)`,
		s.runID, r.Key, r.Topic, r.Time, string(envelope),
	)
	if err != nil {
		return fmt.Errorf("failed to insert telemetry record: %w", err)
	}
	return nil
}

// Count 某主题已写入的记录数，topic为空时统计全部
func (s *SQLiteSink) Count(topic string) (int, error) {
	var n int
	var err error
	if topic == "" {
		err = s.QueryRow(`SELECT COUNT(*) FROM telemetry_records WHERE run_id = ?`, s.runID).Scan(&n)
	} else {
		err = s.QueryRow(`SELECT COUNT(*) FROM telemetry_records WHERE run_id = ? AND topic = ?`, s.runID, topic).Scan(&n)
	}
	return n, err
}

func (s *SQLiteSink) Close() error {
	return s.DB.Close()
}
