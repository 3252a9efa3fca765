package filesystem

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/shell"
)

func TestLocatorFixture(t *testing.T) {
	gunit.Run(new(LocatorFixture), t)
}

type LocatorFixture struct {
	*gunit.Fixture
	root    string
	locator *Locator
}

func (this *LocatorFixture) Setup() {
	var err error
	this.root, err = ioutil.TempDir("", "libman-locator-")
	this.So(err, should.BeNil)
	this.So(os.MkdirAll(filepath.Join(this.root, "vendor"), 0755), should.BeNil)
	this.So(ioutil.WriteFile(filepath.Join(this.root, "vendor", "a.js"), []byte("a"), 0644), should.BeNil)
	this.locator = NewLocator(shell.NewDiskFileSystem(this.root), nil)
}

func (this *LocatorFixture) Teardown() {
	_ = os.RemoveAll(this.root)
}

func (this *LocatorFixture) TestAbsoluteDirectory() {
	location, err := this.locator.Locate(filepath.Join(this.root, "vendor"))

	this.So(err, should.BeNil)
	this.So(location.Kind, should.Equal, Directory)
}

func (this *LocatorFixture) TestRelativeFile() {
	location, err := this.locator.Locate("vendor/a.js")

	this.So(err, should.BeNil)
	this.So(location.Kind, should.Equal, LocalFile)
	this.So(location.Path, should.Equal, filepath.Join(this.root, "vendor", "a.js"))
	this.So(location.Name(), should.Equal, "a.js")
}

func (this *LocatorFixture) TestURL() {
	location, err := this.locator.Locate("https://example.com/lib/b.min.js")

	this.So(err, should.BeNil)
	this.So(location.Kind, should.Equal, Remote)
	this.So(location.URL.Host, should.Equal, "example.com")
	this.So(location.Name(), should.Equal, "b.min.js")
}

func (this *LocatorFixture) TestLocalPathWinsOverURL() {
	this.So(os.MkdirAll(filepath.Join(this.root, "http:", "example.com"), 0755), should.BeNil)

	location, err := this.locator.Locate("http://example.com")

	this.So(err, should.BeNil)
	this.So(location.Kind, should.Equal, Directory)
}

func (this *LocatorFixture) TestUnsupportedScheme() {
	_, err := this.locator.Locate("ftp://example.com/a.js")

	this.So(errors.Is(err, contracts.ErrNotFound), should.BeTrue)
}

func (this *LocatorFixture) TestMissing() {
	_, err := this.locator.Locate("vendor/missing.js")

	this.So(errors.Is(err, contracts.ErrNotFound), should.BeTrue)
}
