package get

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"
)

// Sources are fetched into a per-project cache directory, shared across
// invocations so that repeated runs against the same remote patch or
// definitions do not re-download.
const cacheBaseDir = ".patchwork"

// Unmarshal fetches a remote YAML document and decodes it into dst.
func Unmarshal(src string, dst interface{}) error {
	bytes, err := GetBytes(src)
	if err != nil {
		return err
	}

	logrus.Tracef("unmarshalling %s", string(bytes))

	if err := yaml.Unmarshal(bytes, dst); err != nil {
		return err
	}

	logrus.Tracef("unmarshalled to %v", dst)

	return nil
}

// GetBytes fetches the file named by a go-getter source of the form
// $repo//$path and returns its contents.
func GetBytes(goGetterSrc string) ([]byte, error) {
	file, err := File(goGetterSrc)
	if err != nil {
		return nil, err
	}

	bytes, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %v", err)
	}

	return bytes, nil
}

// File fetches the directory containing the file named by a go-getter source
// of the form $repo//$path into the cache and returns the local path of the
// file, suitable for handing to external tools.
func File(goGetterSrc string) (string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	getterSrcParts := strings.Split(goGetterSrc, "//")
	if len(getterSrcParts) != 2 {
		return "", fmt.Errorf("format the src description with $repo//$path, like github.com/mumoshu/patchwork//examples/fix.patch: %s", goGetterSrc)
	}

	lastIndex := len(getterSrcParts) - 1

	fileAndQuery := strings.SplitN(getterSrcParts[lastIndex], "?", 2)
	file := fileAndQuery[0]
	var fileQuery string
	if len(fileAndQuery) > 1 {
		fileQuery = fileAndQuery[1]
	}

	dirAndQuery := strings.Split(strings.Join(getterSrcParts[:lastIndex], "/"), "?")
	srcDir := dirAndQuery[0]
	var dirQuery string
	if len(dirAndQuery) > 1 {
		dirQuery = dirAndQuery[1]
	}

	query := strings.Trim(strings.Join([]string{fileQuery, dirQuery}, "&"), "&")

	replacer := strings.NewReplacer("/", "_", ".", "_")
	cacheKey := replacer.Replace(srcDir)
	if len(query) > 0 {
		paramsKey := strings.Replace(query, "&", "_", -1)
		cacheKey = fmt.Sprintf("%s.%s", cacheKey, paramsKey)
	}

	dst := filepath.Join(cacheBaseDir, cacheKey)

	cached := false
	{
		stat, err := os.Stat(dst)
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("stat: %v", err)
		} else if err == nil {
			if !stat.IsDir() {
				return "", fmt.Errorf("%s is not a directory. please remove it so that patchwork could use it for dependency caching", dst)
			}
			cached = true
		}
	}

	if !cached {
		logrus.Debugf("downloading %s to %s", srcDir, dst)

		src := srcDir
		if len(query) > 0 {
			src = strings.Join([]string{srcDir, query}, "?")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		get := &getter.Client{
			Ctx:     ctx,
			Src:     src,
			Dst:     dst,
			Pwd:     pwd,
			Mode:    getter.ClientModeDir,
			Options: []getter.ClientOption{},
		}

		if err := get.Get(); err != nil {
			return "", fmt.Errorf("get: %v", err)
		}
	}

	return filepath.Join(dst, file), nil
}
