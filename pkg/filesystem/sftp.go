package filesystem

import (
	"context"
	"fmt"
	"iter"
	"net"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/megvii-research/go-megfile/pkg/config"
	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/glob"
	"github.com/megvii-research/go-megfile/pkg/registry"
	"github.com/megvii-research/go-megfile/pkg/types"
)

// sftpAPI is the slice of the SFTP client the backend needs. Tests
// substitute a fake.
type sftpAPI interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.FileInfo, error)
}

// sftpFS implements types.FileSystem over one SFTP connection. The host,
// port and credentials come from the connection profile; the URI carries
// only the remote path, so sftp+prod:///var/log addresses /var/log on the
// host configured under the "prod" profile.
type sftpFS struct {
	client sftpAPI
}

// NewSFTP creates an SFTP backend connected per the named profile
func NewSFTP(profile string) (types.FileSystem, error) {
	p, err := config.GetProfile(profile)
	if err != nil {
		return nil, err
	}
	client, err := dialSFTP(p.SFTP)
	if err != nil {
		return nil, err
	}
	return &sftpFS{client: client}, nil
}

// NewSFTPWithClient creates an SFTP backend over an existing client
func NewSFTPWithClient(client sftpAPI) types.FileSystem {
	return &sftpFS{client: client}
}

func init() {
	err := registry.RegisterFileSystem("sftp", func(profile string) (types.FileSystem, error) {
		return NewSFTP(profile)
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register sftp filesystem: %v", err))
	}
}

func dialSFTP(p config.SFTPProfile) (*sftp.Client, error) {
	if p.Host == "" {
		return nil, errors.New(errors.ErrConfigValid, "sftp profile has no host")
	}
	port := p.Port
	if port == 0 {
		port = 22
	}

	// TODO: verify host keys against known_hosts via a profile option
	cfg := &ssh.ClientConfig{
		User:            p.User,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}
	if p.Password != "" {
		cfg.Auth = append(cfg.Auth, ssh.Password(p.Password))
	}
	if p.KeyFile != "" {
		keyBytes, err := os.ReadFile(p.KeyFile)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "unable to read private key file %s", p.KeyFile)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigValid, "unable to parse private key")
		}
		cfg.Auth = append(cfg.Auth, ssh.PublicKeys(signer))
	}
	if len(cfg.Auth) == 0 {
		return nil, errors.New(errors.ErrConfigValid, "sftp profile has no password or key file")
	}

	conn, err := ssh.Dial("tcp", net.JoinHostPort(p.Host, strconv.Itoa(port)), cfg)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to connect to %s", p.Host).
			WithDetail("host", p.Host)
	}
	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to start sftp on %s", p.Host).
			WithDetail("host", p.Host)
	}
	return client, nil
}

func (s *sftpFS) Scheme() string {
	return "sftp"
}

func (s *sftpFS) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := s.client.Lstat(localPath(path))
	return err == nil, nil
}

func (s *sftpFS) IsDir(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := s.client.Stat(localPath(path))
	if err != nil {
		return false, nil
	}
	return info.IsDir(), nil
}

func (s *sftpFS) IsFile(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := s.client.Stat(localPath(path))
	if err != nil {
		return false, nil
	}
	return info.Mode().IsRegular(), nil
}

func (s *sftpFS) Stat(ctx context.Context, path string) (types.StatResult, error) {
	if err := ctx.Err(); err != nil {
		return types.StatResult{}, err
	}
	p := localPath(path)
	info, err := s.client.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return types.StatResult{}, errors.Wrapf(err, errors.ErrNotFound, "no such file or directory: %s", path).
				WithDetail("path", path)
		}
		return types.StatResult{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).
			WithDetail("path", path)
	}
	stat := statFromInfo(info)
	if link, lerr := s.client.Lstat(p); lerr == nil && link.Mode()&os.ModeSymlink != 0 {
		stat.IsLink = true
	}
	return stat, nil
}

func (s *sftpFS) ScanDir(ctx context.Context, dir string) iter.Seq2[types.Entry, error] {
	return func(yield func(types.Entry, error) bool) {
		infos, err := s.client.ReadDir(localPath(dir))
		if err != nil {
			yield(types.Entry{}, s.translateError(err, dir))
			return
		}
		// The wire protocol returns entries in server order
		sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
		for _, info := range infos {
			if ctx.Err() != nil {
				yield(types.Entry{}, ctx.Err())
				return
			}
			stat := statFromInfo(info)
			if info.Mode()&os.ModeSymlink != 0 {
				stat.IsLink = true
			}
			entry := types.Entry{
				Name: info.Name(),
				Path: joinEntryPath(dir, info.Name()),
				Stat: stat,
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func (s *sftpFS) Glob(ctx context.Context, pattern string, opts ...glob.Option) ([]string, error) {
	return GlobAll(ctx, s, pattern, opts...)
}

func (s *sftpFS) IGlob(ctx context.Context, pattern string, opts ...glob.Option) iter.Seq2[string, error] {
	return IGlobAll(ctx, s, pattern, opts...)
}

func (s *sftpFS) translateError(err error, path string) error {
	if os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrNotFound, "no such directory: %s", path).
			WithDetail("path", path)
	}
	if info, serr := s.client.Stat(localPath(path)); serr == nil && !info.IsDir() {
		return errors.Wrapf(err, errors.ErrNotADirectory, "not a directory: %s", path).
			WithDetail("path", path)
	}
	if os.IsPermission(err) {
		return errors.Wrapf(err, errors.ErrPermission, "permission denied: %s", path).
			WithDetail("path", path)
	}
	return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", path).
		WithDetail("path", path)
}
