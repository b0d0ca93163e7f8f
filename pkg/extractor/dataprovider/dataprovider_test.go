package dataprovider

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siftlabs/sift/pkg/models"
)

const providerSource = `package com.example.data;

import org.testng.annotations.DataProvider;

public class CheckoutData {

    @DataProvider(name = "carts", parallel = true)
    public Object[][] cartRows() {
        return new Object[][] {
            {"single-item", 1},
            {"bulk-order", 40},
        };
    }

    @DataProvider
    public Object[][] regions() throws IOException {
        Workbook workbook = WorkbookFactory.create(new File("regions.xlsx"));
        Sheet sheet = workbook.getSheet("EU");
        for (int i = 2; i <= sheet.getLastRowNum(); i++) {
            collect(sheet.getRow(i));
        }
        return rows;
    }

    @DataProvider(name = "forwarded")
    public Object[][] forwarded() {
        return sharedRows();
    }

    public Object[][] sharedRows() {
        return loader.fetch();
    }
}
`

func TestExtractProviders(t *testing.T) {
	records := New().Extract(providerSource, "CheckoutData.java")
	require.Len(t, records, 3)

	inline := records[0]
	assert.Equal(t, "carts", inline.Name)
	assert.Equal(t, "cartRows", inline.MethodName)
	assert.Equal(t, "CheckoutData", inline.ClassName)
	assert.True(t, inline.IsParallel)
	assert.Equal(t, models.SourceInline, inline.DataSource)

	excel := records[1]
	assert.Equal(t, "regions", excel.Name) // falls back to the method name
	assert.False(t, excel.IsParallel)
	assert.Equal(t, models.SourceExcel, excel.DataSource)
	assert.Equal(t, "regions.xlsx", excel.SourceFile)
	assert.Equal(t, "EU", excel.SheetName)
	assert.Equal(t, 2, excel.StartRow)

	delegated := records[2]
	assert.Equal(t, "forwarded", delegated.Name)
	assert.Equal(t, models.SourceMethodDelegate, delegated.DataSource)
	assert.Equal(t, "sharedRows", delegated.Delegate)
}

func TestUnannotatedMethodsIgnored(t *testing.T) {
	records := New().Extract(providerSource, "CheckoutData.java")
	for _, r := range records {
		assert.NotEqual(t, "sharedRows", r.MethodName)
	}
}

func TestParameterNames(t *testing.T) {
	src := `public class P {
    @DataProvider(name = "typed")
    public Object[][] typed(Map<String, Integer> counts, String region) {
        return new Object[][] {{counts, region}};
    }
}
`
	records := New().Extract(src, "P.java")
	require.Len(t, records, 1)
	assert.Equal(t, []string{"counts", "region"}, records[0].Parameters)
}

func TestParameterCap(t *testing.T) {
	params := make([]string, 0, models.MaxProviderParameters+5)
	for i := 0; i < models.MaxProviderParameters+5; i++ {
		params = append(params, "int p"+strings.Repeat("x", i+1))
	}
	src := "public class P {\n    @DataProvider(name = \"wide\")\n    public Object[][] wide(" +
		strings.Join(params, ", ") + ") {\n        return rows;\n    }\n}\n"

	records := New().Extract(src, "P.java")
	require.Len(t, records, 1)
	assert.Len(t, records[0].Parameters, models.MaxProviderParameters)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CheckoutData.java")
	require.NoError(t, os.WriteFile(path, []byte(providerSource), 0o644))

	records, err := New().ExtractFile(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, path, records[0].FilePath)

	_, err = New().ExtractFile(filepath.Join(dir, "missing.java"))
	assert.Error(t, err)
}
