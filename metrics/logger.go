package metrics

import (
	"fmt"
	"log"
	"os"
	"sync"
)

type Logger interface {
	Log(info *ComparisonInfo)
}

type StdoutLogger struct{}

func NewStdoutLogger() *StdoutLogger {
	return &StdoutLogger{}
}

func (l *StdoutLogger) Log(info *ComparisonInfo) {
	infoStr, err := info.ToJSON()
	if err == nil {
		log.Print(infoStr)
	} else {
		log.Printf("StdoutLogger: error: %v", err)
	}
}

const defaultQueueSize = 2000
const defaultMaxLogFileSize = 64 * 1024 * 1024
const defaultMaxLogFiles = 10

// FileLogger appends JSON lines to a report file from a single writer
// goroutine. When the file reaches MaxLogFileSize it is renamed to
// <file>.0 .. <file>.N-1, the oldest being overwritten.
type FileLogger struct {
	Queue          chan *ComparisonInfo
	FilePath       string
	MaxLogFileSize int64
	MaxLogFiles    int
	Verbose        bool

	done      chan struct{}
	closeOnce sync.Once
}

func NewFileLogger(filePath string, maxLogFileSize int64, maxLogFiles int, verbose bool) (*FileLogger, error) {
	if maxLogFileSize <= 0 {
		maxLogFileSize = defaultMaxLogFileSize
	}
	if maxLogFiles <= 0 {
		maxLogFiles = defaultMaxLogFiles
	}
	logger := &FileLogger{
		Queue:          make(chan *ComparisonInfo, defaultQueueSize),
		FilePath:       filePath,
		MaxLogFileSize: maxLogFileSize,
		MaxLogFiles:    maxLogFiles,
		Verbose:        verbose,
		done:           make(chan struct{}),
	}

	f, err := logger.openLogFile()
	if err != nil {
		return nil, err
	}

	go logger.startLogWriter(f)
	return logger, nil
}

func (l *FileLogger) Log(info *ComparisonInfo) {
	l.Queue <- info
}

// Close flushes queued records and closes the report file.
func (l *FileLogger) Close() {
	l.closeOnce.Do(func() {
		close(l.Queue)
		<-l.done
	})
}

func (l *FileLogger) startLogWriter(f *os.File) {
	defer close(l.done)
	for info := range l.Queue {
		infoStr, err := info.ToJSON()
		if err != nil {
			log.Printf("FileLogger: info.ToJSON() error: %v", err)
			continue
		}

		f = l.tryRotateLogFile(f)
		if f == nil {
			continue
		}

		if _, err := f.WriteString(infoStr); err != nil {
			log.Printf("FileLogger: write error: %v", err)
			continue
		}
	}
	if f != nil {
		f.Sync()
		f.Close()
	}
}

func (l *FileLogger) openLogFile() (*os.File, error) {
	return os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func (l *FileLogger) tryRotateLogFile(currFile *os.File) *os.File {
	if currFile == nil {
		f, err := l.openLogFile()
		if err != nil {
			log.Printf("FileLogger: log open error: %v", err)
			return nil
		}
		return f
	}

	info, err := currFile.Stat()
	if err != nil {
		log.Printf("FileLogger: log rotation error: %v", err)
		return currFile
	}
	if info.Size() < l.MaxLogFileSize {
		return currFile
	}

	rotatedLogFilePath := l.nextRotatedPath()
	currFile.Close()
	if err := os.Rename(l.FilePath, rotatedLogFilePath); err != nil {
		log.Printf("FileLogger: log rotation error: %v", err)
	} else if l.Verbose {
		log.Printf("FileLogger: log file rotated: %v", rotatedLogFilePath)
	}

	f, err := l.openLogFile()
	if err != nil {
		log.Printf("FileLogger: log rotation error: %v", err)
		return nil
	}
	return f
}

// nextRotatedPath returns the first free rotation slot, or the oldest
// one when all slots are taken.
func (l *FileLogger) nextRotatedPath() string {
	var oldestPath string
	var oldestInfo os.FileInfo
	for i := 0; i < l.MaxLogFiles; i++ {
		filePath := fmt.Sprintf("%s.%d", l.FilePath, i)
		fi, err := os.Stat(filePath)
		if os.IsNotExist(err) {
			return filePath
		}
		if err == nil && (oldestInfo == nil || fi.ModTime().Before(oldestInfo.ModTime())) {
			oldestPath = filePath
			oldestInfo = fi
		}
	}

	if oldestPath == "" {
		oldestPath = fmt.Sprintf("%s.%d", l.FilePath, 0)
	}
	if l.Verbose {
		log.Printf("FileLogger: maximum number of log files reached, overwriting %s", oldestPath)
	}
	return oldestPath
}
