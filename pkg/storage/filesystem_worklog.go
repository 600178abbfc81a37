package storage

import (
	"errors"
	"os"

	"github.com/felixgeelhaar/sprintplan/pkg/domain/worklog"
)

// LoadWorklogs reads worklogs.yaml. A missing file yields an empty log.
func (r *FilesystemRepository) LoadWorklogs() (*worklog.Log, error) {
	l, err := loadYAML[worklog.Log](r, WorklogsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &worklog.Log{}, nil
		}
		return nil, err
	}
	return l, nil
}

func (r *FilesystemRepository) SaveWorklogs(l *worklog.Log) error {
	return r.saveYAML(WorklogsFile, l)
}

// AppendWorklog adds one entry to worklogs.yaml.
func (r *FilesystemRepository) AppendWorklog(e worklog.Entry) error {
	l, err := r.LoadWorklogs()
	if err != nil {
		return err
	}
	if err := l.Add(e); err != nil {
		return err
	}
	return r.SaveWorklogs(l)
}
