package sqlinline

const QCreateSavedImagesTable = `--sql 928bb34e-4889-47d8-ac64-83b83fd41dde
create table if not exists saved_images (
  storage_key  text primary key,
  public_url   text not null,
  mime         text not null,
  bytes        bigint not null,
  created_at   timestamptz not null default now()
);
`

const QInsertSavedImage = `--sql f25c3ebf-ab6c-4a72-bed5-8b9c2814bdfa
insert into saved_images(storage_key, public_url, mime, bytes, created_at)
values ($1::text, $2::text, $3::text, $4::bigint, $5::timestamptz)
on conflict (storage_key) do nothing;
`

const QCountSavedImages = `--sql bc3f870b-e02a-4bf7-84a8-aba8fd26ceff
select count(*) from saved_images;
`

const QListRecentSavedImages = `--sql 33dbfe78-5dec-4b97-9588-ac4a548f8dbd
select storage_key, public_url, mime, bytes, created_at
from saved_images
order by created_at desc
limit $1::int;
`
